// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSchemaValidation,
//	    "header does not match the asset schema",
//	    headerErr,
//	    map[string]any{
//	        "columns": len(header),
//	    },
//	)
//
// Handlers translate the code into an HTTP status with server.WriteErrorFromErr,
// and errors.CodeOf extracts it for metric labels.
package errors
