package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field limits.
const (
	MaxBVIDLen     = 24
	MaxUsernameLen = 32
	MaxBatchBVIDs  = 50
	MaxPageSize    = 100
)

var (
	// bvidRe matches bilibili video IDs: "BV" followed by base58-ish characters.
	bvidRe = regexp.MustCompile(`^BV[A-Za-z0-9]+$`)
	// usernameRe keeps login names to word characters.
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateBVID checks that a video key is well-formed. Returns the cleaned
// value and an error message, empty on success.
func ValidateBVID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "bvid is required"
	}
	if len(id) > MaxBVIDLen {
		return "", "bvid must be at most 24 characters"
	}
	if !bvidRe.MatchString(id) {
		return "", "bvid must start with BV followed by alphanumerics"
	}
	return id, ""
}

// ValidateUsername checks a login name.
func ValidateUsername(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "username is required"
	}
	if len(name) > MaxUsernameLen {
		return "", "username must be at most 32 characters"
	}
	if !usernameRe.MatchString(name) {
		return "", "username contains invalid characters"
	}
	return name, ""
}

// ValidateBatch checks the bvid list of a batch lookup.
func ValidateBatch(bvids []string) ([]string, string) {
	if len(bvids) == 0 {
		return nil, "bvids must be a non-empty array"
	}
	if len(bvids) > MaxBatchBVIDs {
		return nil, "bvids must contain at most 50 entries"
	}
	cleaned := make([]string, 0, len(bvids))
	for _, b := range bvids {
		id, errMsg := ValidateBVID(b)
		if errMsg != "" {
			return nil, errMsg
		}
		cleaned = append(cleaned, id)
	}
	return cleaned, ""
}

// ClampPage normalizes a page/page_size pair for paged listings.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
