package handler

const (
	errInternalServer     = "Internal server error"
	errUnauthorized       = "Unauthorized"
	errInvalidCredentials = "Invalid credentials"
	errEmailTaken         = "Email already exists"
	errBlogNotFound       = "Blog not found"
	errInvalidBlogID      = "Invalid blog id"
	errForbidden          = "You can only modify your own blogs"
	errInvalidCursor      = "Invalid cursor"
	errUploadsDisabled    = "Image uploads are not available"
	errPasswordTooLong    = "Password must be at most 72 bytes"
)
