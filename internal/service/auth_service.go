package service

import (
	"strings"
	"time"

	"github.com/Athulraj10/qashio-api-assignment/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8
	// TokenTTL is how long issued access tokens stay valid
	TokenTTL = 24 * time.Hour
)

// AuthService handles registration, login and token issuance
type AuthService struct {
	userRepo domain.UserRepository
	secret   []byte
	issuer   string
	audience string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, secret []byte, issuer, audience string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   secret,
		issuer:   issuer,
		audience: audience,
	}
}

// AuthResult is the outcome of a successful register or login
type AuthResult struct {
	User        *domain.User
	AccessToken string
}

// accessClaims are the claims carried by issued tokens
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Register creates a new user and issues an access token
func (s *AuthService) Register(email, password string, name *string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	if len(password) < MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(created)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: created, AccessToken: token}, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, AccessToken: token}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := accessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
