package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrStateNotLoaded = ErrorResponse{
		Status:  "error",
		Error:   "state_not_loaded",
		Details: "Park content is not loaded yet",
	}

	ErrItemNotFound = ErrorResponse{
		Status:  "error",
		Error:   "item_not_found",
		Details: "Gallery item not found",
	}

	ErrFileRejected = ErrorResponse{
		Status: "error",
		Error:  "file_rejected",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
