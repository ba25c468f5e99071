package handlers

import (
	"errors"
	"log"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/farmlink/internal/common"
	"github.com/example/farmlink/internal/config"
	"github.com/example/farmlink/internal/models"
	"github.com/example/farmlink/internal/otp"
	"github.com/example/farmlink/internal/services"
	"github.com/example/farmlink/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
	otp *otp.Manager
	sms *services.SMSSender
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, manager *otp.Manager, sms *services.SMSSender) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, otp: manager, sms: sms}
}

type registerRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	FarmName string `json:"farmName"`
	Location string `json:"location"`
	Address  string `json:"address"`
}

// Validate declares the required-field set per role, so adding a role means
// adding a case here rather than scattering presence checks.
func (r registerRequest) Validate() error {
	switch models.Role(r.Role) {
	case models.RoleAdmin:
		return validation.ValidateStruct(&r,
			validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Email, validation.Required, is.Email),
			validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		)
	case models.RoleFarmer:
		return validation.ValidateStruct(&r,
			validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Phone, validation.Required, validation.Length(7, 15), is.Digit),
			validation.Field(&r.FarmName, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Location, validation.Required, validation.Length(1, 200)),
		)
	case models.RoleConsumer:
		return validation.ValidateStruct(&r,
			validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Phone, validation.Required, validation.Length(7, 15), is.Digit),
			validation.Field(&r.Address, validation.Required, validation.Length(1, 500)),
		)
	default:
		return errors.New("role must be one of FARMER, CONSUMER, ADMIN")
	}
}

// Register creates a new user account. It never issues a session; the caller
// logs in afterwards.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return common.New(common.KindValidation, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return common.New(common.KindValidation, err.Error())
	}

	// One existence query across both identity columns.
	existing := h.db.Model(&models.User{})
	email := strings.ToLower(req.Email)
	switch {
	case req.Email != "" && req.Phone != "":
		existing = existing.Where("LOWER(email) = ? OR phone = ?", email, req.Phone)
	case req.Email != "":
		existing = existing.Where("LOWER(email) = ?", email)
	default:
		existing = existing.Where("phone = ?", req.Phone)
	}

	var count int64
	if err := existing.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return common.New(common.KindConflict, "user with this email or phone already exists")
	}

	user := models.User{
		Name: req.Name,
		Role: models.Role(req.Role),
	}

	if req.Email != "" {
		user.Email = &email
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	switch user.Role {
	case models.RoleFarmer:
		user.FarmName = req.FarmName
		user.Location = req.Location
	case models.RoleConsumer:
		user.Address = req.Address
	}

	if err := h.db.Create(&user).Error; err != nil {
		// Unique indexes are the last word; a concurrent registration with
		// the same email or phone loses here, not at the existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.New(common.KindConflict, "user with this email or phone already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"userId":  user.ID,
	})
}

type loginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Login is the single entry point for both flows. The claimed role selects
// password authentication (admins) or OTP initiation (farmers, consumers).
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return common.New(common.KindValidation, "invalid request body")
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return common.New(common.KindValidation, "role must be one of FARMER, CONSUMER, ADMIN")
	}

	if role.UsesPassword() {
		return h.loginWithPassword(c, req)
	}
	return h.loginWithOTP(c, role, req)
}

func (h *AuthHandler) loginWithPassword(c *fiber.Ctx, req loginRequest) error {
	if req.Email == "" || req.Password == "" {
		return common.New(common.KindValidation, "email and password are required")
	}

	// "no such user" and "wrong password" answer identically.
	var user models.User
	err := h.db.Where("LOWER(email) = ?", strings.ToLower(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.New(common.KindInvalidCredentials, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return common.New(common.KindInvalidCredentials, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, string(user.Role), h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user.Summary(),
	})
}

func (h *AuthHandler) loginWithOTP(c *fiber.Ctx, role models.Role, req loginRequest) error {
	if req.Phone == "" {
		return common.New(common.KindValidation, "phone is required")
	}

	// Constrained to the claimed role so a consumer phone cannot start a
	// farmer login.
	var user models.User
	err := h.db.Where("phone = ? AND role = ?", req.Phone, role).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.New(common.KindNotFound, "user not found")
		}
		return err
	}

	code, err := h.otp.Issue(user.ID, req.Phone)
	if err != nil {
		return err
	}

	// Delivery is best effort; the challenge is already persisted and the
	// handle below is what the verify step needs.
	if err := h.sms.SendOTP(req.Phone, code); err != nil {
		log.Printf("[auth] OTP delivery failed for user %s: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"userId":  user.ID,
	})
}

type verifyOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

// VerifyOTP completes the OTP flow: on a valid code it mints the session
// token withheld at login time.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return common.New(common.KindValidation, "invalid request body")
	}

	if req.UserID == "" || req.OTP == "" {
		return common.New(common.KindValidation, "userId and otp are required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return common.New(common.KindValidation, "invalid userId")
	}

	if err := h.otp.Verify(userID, req.OTP); err != nil {
		if errors.Is(err, otp.ErrCodeInvalidOrExpired) {
			return common.New(common.KindInvalidOrExpired, "verification code invalid or expired")
		}
		return err
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.New(common.KindInvalidOrExpired, "verification code invalid or expired")
		}
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, string(user.Role), h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user.Summary(),
	})
}
