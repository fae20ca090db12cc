package api

import (
	"coffee_platform/internal/domain"     // Identifier parsing
	"coffee_platform/internal/middleware" // Verified claims
	"coffee_platform/internal/storage"    // Uploaded images
	"coffee_platform/internal/utils"      // Claims
	"encoding/json"                       // Multipart JSON fields
	"errors"                              // Error inspection
	"fmt"                                 // Message formatting
	"net/http"                            // Multipart errors
	"strconv"                             // ID parsing
	"strings"                             // Field names

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding errors
)

// contactFields accepts the identifier either as emailOrPhone or as an explicit email/phoneNumber
type contactFields struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
}

// Identifier turns the request fields into the tagged identifier once, at the boundary
func (f contactFields) Identifier() domain.Identifier {
	switch {
	case f.Email != "":
		return domain.EmailIdentifier(f.Email)
	case f.PhoneNumber != "":
		return domain.PhoneIdentifier(f.PhoneNumber)
	}
	return domain.ParseIdentifier(f.EmailOrPhone)
}

// bind decodes the JSON body into req, answering 400 on failure
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, bindMessage(err))
		return false
	}
	return true
}

// bindMessage turns binding errors into a readable message
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgMissingFields
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return MsgMissingFields
	case "strongpassword":
		return utils.ValidatePassword("").Message
	case "contact":
		return "Please enter a valid email address or phone number."
	case "email":
		return "Please enter a valid email address."
	case "azphone":
		return "Please enter a valid phone number."
	}
	return fmt.Sprintf("%s is invalid", field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// claims returns the claims stored by the token middleware
func claims(c *gin.Context) *utils.Claims {
	cl, ok := middleware.Claims(c)
	if !ok {
		return &utils.Claims{}
	}
	return cl
}

// formID reads a positive numeric ID from a multipart or urlencoded form field
func formID(c *gin.Context, key string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(c.PostForm(key)), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, fmt.Sprintf("%s is required", key))
		return 0, false
	}
	return uint(v), true
}

// queryID reads a positive numeric ID from the query string
func queryID(c *gin.Context, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, fmt.Sprintf("%s is required", key))
		return 0, false
	}
	return uint(v), true
}

// isMissingFile reports whether a multipart lookup failed because the file was absent
func isMissingFile(err error) bool {
	return errors.Is(err, http.ErrMissingFile)
}

// jsonField decodes a multipart text field holding JSON after checking it against schema.
// An absent optional field leaves dest untouched and reports false with no response written.
func jsonField(c *gin.Context, field, schema string, dest any, required bool) (present, ok bool) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		if required {
			badRequest(c, fmt.Sprintf("%s is required", field))
			return false, false
		}
		return false, true
	}
	if res := utils.ValidateJSON(schema, []byte(raw)); !res.IsValid {
		badRequest(c, res.Message)
		return false, false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		badRequest(c, fmt.Sprintf("%s must be valid JSON", field))
		return false, false
	}
	return true, true
}

// formImage reads and sniffs an uploaded image; a missing optional file yields nil
func formImage(c *gin.Context, field string, required bool) (*storage.Image, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if isMissingFile(err) && !required {
			return nil, true
		}
		if isMissingFile(err) {
			badRequest(c, fmt.Sprintf("%s: %s", MsgFileRequired, field))
			return nil, false
		}
		badRequest(c, "Invalid multipart form")
		return nil, false
	}
	img, err := storage.ReadImage(fh)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return img, true
}

// formFloat reads an optional numeric form field
func formFloat(c *gin.Context, key string) (float64, bool) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badRequest(c, fmt.Sprintf("%s must be a number", key))
		return 0, false
	}
	return v, true
}
