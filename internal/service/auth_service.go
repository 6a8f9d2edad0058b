package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/config"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/entity"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/mailer"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/contract"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/repository/specification"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/events"
	pktNats "github.com/Divyapahuja31/ASKMYNOTES/pkg/nats"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GoogleAuthURL(state string) string
	GoogleCallback(ctx context.Context, code string) (*dto.LoginResponse, error)
}

type authService struct {
	users        contract.UserRepository
	emailService mailer.IEmailService
	natsPub      *pktNats.Publisher
	jwtSecret    string
	oauthConfig  *oauth2.Config
}

func NewAuthService(
	users contract.UserRepository,
	emailService mailer.IEmailService,
	natsPub *pktNats.Publisher,
	cfg *config.Config,
) IAuthService {
	return &authService{
		users:        users,
		emailService: emailService,
		natsPub:      natsPub,
		jwtSecret:    cfg.App.JWTSecret,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.Keys.GoogleOAuthID,
			ClientSecret: cfg.Keys.GoogleOAuthSecret,
			RedirectURL:  cfg.App.BaseURL + "/api/auth/v1/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	existing, _ := s.users.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, cragerr.Validation("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, err
	}
	otpExpiry := time.Now().Add(15 * time.Minute)

	user := &entity.User{
		Id:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsVerified:   false,
		OtpCode:      otpCode,
		OtpExpiresAt: &otpExpiry,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendOTP(user.Email, otpCode); emailErr != nil {
			fmt.Printf("Error sending registration email: %v\n", emailErr)
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	user, err := s.users.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return cragerr.Authorization("user not found")
	}
	if user.IsVerified {
		return nil
	}
	if user.OtpCode == "" || user.OtpCode != req.Otp {
		return cragerr.Authorization("invalid verification code")
	}
	if user.OtpExpiresAt == nil || time.Now().After(*user.OtpExpiresAt) {
		return cragerr.Authorization("verification code expired")
	}

	user.IsVerified = true
	user.OtpCode = ""
	user.OtpExpiresAt = nil
	now := time.Now()
	user.UpdatedAt = &now

	return s.users.Update(ctx, user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil, cragerr.Authorization("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, cragerr.Authorization("invalid email or password")
	}
	if !user.IsVerified {
		return nil, cragerr.Authorization("email is not verified")
	}

	return s.issueToken(user)
}

func (s *authService) GoogleAuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, cragerr.Authorization(fmt.Sprintf("oauth exchange failed: %v", err))
	}

	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, cragerr.Authorization(fmt.Sprintf("oauth userinfo failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil, cragerr.Authorization("oauth userinfo failed")
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &info); err != nil || info.Email == "" {
		return nil, cragerr.Authorization("oauth userinfo malformed")
	}

	user, err := s.users.FindOne(ctx, specification.ByEmail{Email: info.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &entity.User{
			Id:         uuid.New(),
			Name:       info.Name,
			Email:      info.Email,
			IsVerified: true,
			CreatedAt:  time.Now(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}

		if s.natsPub != nil {
			go s.natsPub.Publish(context.Background(), events.BaseEvent{
				Type:       events.TypeUserRegister,
				Data:       map[string]interface{}{"user_id": user.Id.String(), "provider": "google"},
				OccurredAt: time.Now(),
			})
		}
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *entity.User) (*dto.LoginResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: signed,
		Id:    user.Id,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
