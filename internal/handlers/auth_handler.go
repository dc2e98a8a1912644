package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lift/internal/errors"
	"lift/internal/middleware"
	"lift/internal/models"
	"lift/internal/patch"
	"lift/internal/services"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	memberService services.MemberServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(memberService services.MemberServicer) *AuthHandler {
	return &AuthHandler{memberService: memberService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=32"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MemberResponse represents the member data in the response
type MemberResponse struct {
	ID             uint              `json:"id"`
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Phone          string            `json:"phone"`
	Role           models.MemberRole `json:"role"`
	OfficePosition *string           `json:"office_position,omitempty"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token  string         `json:"token"`
	Member MemberResponse `json:"member"`
}

func memberJSON(member *models.Member) gin.H {
	return gin.H{
		"id":              member.ID,
		"email":           member.Email,
		"first_name":      member.FirstName,
		"last_name":       member.LastName,
		"phone":           member.Phone,
		"role":            member.Role,
		"office_position": member.OfficePosition,
	}
}

// Register handles member registration
// @Summary     Register a new member
// @Description Register a new alumni member with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Member registration data"
// @Success     201 {object} AuthResponse "Member registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Self-registration always yields the member role; admins are promoted
	// out of band.
	member, err := h.memberService.CreateMember(req.Email, req.Password, req.FirstName, req.LastName, req.Phone, models.MemberRoleMember)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(member)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"member": memberJSON(member),
	})
}

// Login handles member login
// @Summary     Login member
// @Description Authenticate a member and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Member login credentials"
// @Success     200 {object} AuthResponse "Member authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.memberService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(member)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"member": memberJSON(member),
	})
}

// GetProfile returns the member's profile
// @Summary     Get member profile
// @Description Get the authenticated member's profile information
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MemberResponse "Member profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	member, err := h.memberService.GetMemberByID(memberID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": memberJSON(member)})
}

// UpdateProfileRequest represents a partial profile update. Sending
// office_position as null clears the office; omitting it leaves it as is.
type UpdateProfileRequest struct {
	FirstName      *string             `json:"first_name" binding:"omitempty,max=100"`
	LastName       *string             `json:"last_name" binding:"omitempty,max=100"`
	Phone          *string             `json:"phone" binding:"omitempty,max=32"`
	OfficePosition patch.Field[string] `json:"office_position"`
}

// UpdateProfile handles partial updates of the member's own profile
// @Summary     Update member profile
// @Description Update the authenticated member's profile. office_position set to null steps the member down from office.
// @Tags        members
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Fields to update"
// @Success     200 {object} MemberResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	member, err := h.memberService.UpdateMember(memberID, services.MemberUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		OfficePosition: req.OfficePosition,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": memberJSON(member)})
}
