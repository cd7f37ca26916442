package deployer

// Hints emitted to the diagnostics sink next to the returned error.
const (
	hintProbeFailed         = "API request failed. Check your AWS credentials and permissions."
	hintCreateFailed        = "Create function failed. Check your iam:PassRole permissions."
	hintCodeUploadFailed    = "Package upload failed. Check your iam:PassRole permissions."
	hintConfigUpdateFailed  = "Update function configuration failed."
	hintListMappingsFailed  = "List event source mapping failed, please make sure you have permission."
	hintCreateMappingFailed = "Failed to create event source mapping."
	hintUpdateMappingFailed = "Update event source mapping failed."
	hintSubscribeFailed     = "Subscribe to topic failed. Check your sns:Subscribe permissions."
	hintAddPermissionFailed = "Add permission failed. Check your lambda:AddPermission permissions."
	hintNotReady            = "Function did not become ready in time. Increase LAMBDEPLOY_WAIT_TIMEOUT if this keeps happening."
)
