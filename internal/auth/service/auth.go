package service

import (
	"context"

	"laundromat/internal/auth/validator"
	"laundromat/pkg/client"
	"laundromat/pkg/config"
	apperrors "laundromat/pkg/errors"
	"laundromat/pkg/model"
)

// Localized failure messages, one per operation. They are what the
// browser toasts when the backend reply is unusable.
const (
	MsgSendCodeFailed   = "خطا در ارسال کد تأیید"
	MsgCheckCodeFailed  = "بررسی کد با خطا مواجه شد"
	MsgLoginFailed      = "ورود با خطا مواجه شد"
	MsgRegisterFailed   = "ثبت‌نام با خطا مواجه شد"
	MsgVerifyFailed     = "خطا در تأیید توکن"
	MsgProfileFailed    = "ویرایش پروفایل با خطا مواجه شد"
	MsgServerError      = "خطای سرور"
	MsgPhoneRequired    = "شماره تلفن الزامی است"
	MsgPhoneCodeMissing = "شماره تلفن و کد تأیید الزامی هستند"
)

type CodeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code" validate:"required,numeric,min=4,max=6"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	Phone     string `json:"phone" validate:"required,phone"`
	StudentID string `json:"student_id" validate:"required,numeric,min=5,max=15"`
	Dormitory string `json:"dormitory" validate:"required,oneof=dormitory-1 dormitory-2"`
}

// ProfileRequest carries the editable profile fields. Phone and
// dormitory are immutable after registration and deliberately absent.
type ProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50"`
	StudentID string `json:"student_id" validate:"required,numeric,min=5,max=15"`
}

type AuthService interface {
	SendCode(ctx context.Context, phone string) (*client.BackendResponse, error)
	CheckCode(ctx context.Context, phone, code string) (*client.BackendResponse, error)
	Login(ctx context.Context, phone, code string) (*client.BackendResponse, *model.User, error)
	Register(ctx context.Context, req *RegisterRequest) (*client.BackendResponse, error)
	VerifyToken(ctx context.Context, token string) (*model.User, error)
	VerifyTokenRaw(ctx context.Context, token string) (*client.BackendResponse, error)
	EditProfile(ctx context.Context, token string, req *ProfileRequest) (*client.BackendResponse, error)
}

type authService struct {
	validator *validator.AuthValidator
	cfg       *config.Config
}

func NewAuthService(v *validator.AuthValidator, cfg *config.Config) AuthService {
	return &authService{
		validator: v,
		cfg:       cfg,
	}
}

func (s *authService) SendCode(ctx context.Context, phone string) (*client.BackendResponse, error) {
	if phone == "" {
		return nil, apperrors.BadRequest(MsgPhoneRequired)
	}

	// send:false leaves SMS delivery to the backend's own policy.
	resp, err := s.cfg.Client.Backend.POST(ctx, "/auth/send-code", "", map[string]any{
		"phone": phone,
		"send":  false,
	})
	if err != nil {
		s.cfg.Log.Error("Send-code request failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Internal(MsgSendCodeFailed, nil)
	}
	return resp, nil
}

func (s *authService) CheckCode(ctx context.Context, phone, code string) (*client.BackendResponse, error) {
	if phone == "" || code == "" {
		return nil, apperrors.BadRequest(MsgPhoneCodeMissing)
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/auth/verify-code", "", map[string]any{
		"phone": phone,
		"code":  code,
	})
	if err != nil {
		s.cfg.Log.Error("Check-code request failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgCheckCodeFailed)
	}
	return resp, nil
}

// Login exchanges phone+code for a session. On success the returned
// user carries the opaque token the handler turns into the auth
// cookie.
func (s *authService) Login(ctx context.Context, phone, code string) (*client.BackendResponse, *model.User, error) {
	if phone == "" || code == "" {
		return nil, nil, apperrors.BadRequest(MsgPhoneCodeMissing)
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/auth/login", "", map[string]any{
		"phone": phone,
		"code":  code,
	})
	if err != nil {
		s.cfg.Log.Error("Login request failed", "error", err)
		return nil, nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, nil, apperrors.Upstream(MsgLoginFailed)
	}

	var user model.User
	if err := resp.DecodeField("user", &user); err != nil {
		// Backend answered without a user record (e.g. a business
		// rejection); forward the reply as-is, no cookie is set.
		return resp, nil, nil
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return resp, &user, nil
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*client.BackendResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/auth/register", "", req)
	if err != nil {
		s.cfg.Log.Error("Register request failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgRegisterFailed)
	}
	return resp, nil
}

func (s *authService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	resp, err := s.VerifyTokenRaw(ctx, token)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := resp.DecodeField("user", &user); err != nil {
		return nil, apperrors.Upstream(MsgVerifyFailed)
	}
	return &user, nil
}

func (s *authService) VerifyTokenRaw(ctx context.Context, token string) (*client.BackendResponse, error) {
	resp, err := s.cfg.Client.Backend.POST(ctx, "/auth/verify-token", "", map[string]any{
		"token": token,
	})
	if err != nil {
		s.cfg.Log.Error("Verify-token request failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgVerifyFailed)
	}
	return resp, nil
}

func (s *authService) EditProfile(ctx context.Context, token string, req *ProfileRequest) (*client.BackendResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	resp, err := s.cfg.Client.Backend.POST(ctx, "/profile/edit", token, req)
	if err != nil {
		s.cfg.Log.Error("Profile edit request failed", "error", err)
		return nil, apperrors.Internal(MsgServerError, err)
	}
	if resp.Message() == "" {
		return nil, apperrors.Upstream(MsgProfileFailed)
	}
	return resp, nil
}

func validationError(err error) error {
	var details map[string]any
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]any, len(vErrs))
		for _, ve := range vErrs {
			fields[ve.Field] = ve.Message
		}
		details = fields
	}
	return apperrors.Validation("اطلاعات وارد شده معتبر نیست", details)
}
