package constants

const (
	SITE_NAME          = "Inkwell"
	MAX_COMMENT_LENGTH = 2500
	DATE_FORMAT        = "January 02, 2006"
	GRAVATAR_SIZE      = 100
	TEMPLATES_DIR      = "templates"
)
