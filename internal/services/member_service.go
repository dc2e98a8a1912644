package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "lift/internal/errors"
	"lift/internal/models"
)

// memberService handles member-related business logic.
type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB) MemberServicer {
	return &memberService{db: db}
}

// CreateMember registers a new member
func (s *memberService) CreateMember(email, password, firstName, lastName, phone string, role models.MemberRole) (*models.Member, error) {
	// Validate input
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	// Check if member with email exists
	var count int64
	s.db.Model(&models.Member{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if role == "" {
		role = models.MemberRoleMember
	}

	member := &models.Member{
		Email:     strings.ToLower(email),
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Role:      role,
		IsActive:  true,
	}

	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return member, nil
}

// GetMemberByEmail retrieves an active member by email
func (s *memberService) GetMemberByEmail(email string) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// GetMemberByID retrieves a member by ID
func (s *memberService) GetMemberByID(id uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// AttemptLogin verifies credentials against an active member account. A
// missing account and a wrong password return the same error so the
// response does not leak which one failed.
func (s *memberService) AttemptLogin(email, password string) (*models.Member, error) {
	member, err := s.GetMemberByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return member, nil
}

// UpdateMember applies a partial profile update. An explicit null on
// OfficePosition clears it (the member stepped down); an absent field is
// left unchanged.
func (s *memberService) UpdateMember(id uint, update MemberUpdate) (*models.Member, error) {
	member, err := s.GetMemberByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.OfficePosition.Set {
		if update.OfficePosition.Valid {
			updates["office_position"] = update.OfficePosition.Value
		} else {
			updates["office_position"] = nil
		}
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(member).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetMemberByID(id)
}
