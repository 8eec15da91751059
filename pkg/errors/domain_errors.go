package errors

var (
	// Domain errors shared across services and the dispatcher.
	ErrMissingToken     = Unauthorized("Missing token")
	ErrAuthFailed       = Unauthorized("Auth failed")
	ErrInvalidUsername  = InvalidArg("Invalid username (3-20 alphanumeric or _ )")
	ErrUsernameTaken    = AlreadyExists("Username taken")
	ErrUsernameNotSet   = InvalidArg("Username not set")
	ErrProfileNotFound  = NotFound("Not found")
	ErrEmptyMessage     = InvalidArg("Empty message")
	ErrListingNotFound  = NotFound("Listing not found")
	ErrUserNotFound     = NotFound("User not found")
	ErrSelfConversation = InvalidArg("Cannot message yourself")
	ErrNotThreadMember  = Forbidden("Not a member of this thread")
	ErrThreadNotFound   = NotFound("Thread not found")
	ErrRateLimited      = Exhausted("Too many messages, slow down")
)
