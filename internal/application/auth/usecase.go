package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/application/ratelimit"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
	"github.com/jhoicas/Pantallas-api/pkg/logger"
)

// AuthUseCase orquesta registro, verificación, login, rotación y
// recuperación de password. Los flujos de registro/verificación pasan por
// el rate limiter y el motor de OTP antes de tocar el Credential Store.
type AuthUseCase struct {
	users   repository.UserRepository
	company repository.CompanyRepository
	pending repository.PendingSignupRepository
	tokens  *TokenService
	otp     *OTPService
	limiter *ratelimit.Limiter
	mailer  Mailer
	log     *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	users repository.UserRepository,
	company repository.CompanyRepository,
	pending repository.PendingSignupRepository,
	tokens *TokenService,
	otp *OTPService,
	limiter *ratelimit.Limiter,
	mailer Mailer,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		users:   users,
		company: company,
		pending: pending,
		tokens:  tokens,
		otp:     otp,
		limiter: limiter,
		mailer:  mailer,
		log:     log,
	}
}

// Register crea el pre-registro con OTP y lo envía por correo. Si el email
// ya pertenece a un usuario verificado devuelve Conflict; un pre-registro
// previo se sobreescribe (emitir un OTP nuevo invalida el anterior).
func (uc *AuthUseCase) Register(in dto.RegisterRequest) error {
	email := normalizeEmail(in.Email)

	existing, err := uc.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	code, err := uc.otp.NewCode()
	if err != nil {
		return err
	}
	name := in.Name
	if name == "" {
		name = email
	}
	signup := &entity.PendingSignup{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		OTP:          code,
		OTPExpiresAt: uc.otp.ExpiresAt(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.pending.Upsert(signup); err != nil {
		return err
	}
	if err := uc.mailer.SendOTP(email, "signup", code); err != nil {
		// El pre-registro queda; el usuario puede pedir reenvío.
		uc.log.Warn().Err(err).Str("email", email).Msg("envío de OTP de registro falló")
	}
	return nil
}

// VerifyRegistration verifica el OTP del pre-registro, promueve a User,
// resuelve la empresa elegida y entrega el par de tokens. El gate de
// entrada "otp:<email>" del limiter corre antes que la verificación.
func (uc *AuthUseCase) VerifyRegistration(in dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if err := uc.limiter.Allow(ratelimit.KeyOTP, email); err != nil {
		return nil, err
	}

	signup, err := uc.otp.VerifySignup(email, in.OTP)
	if err == nil && signup != nil {
		return uc.promoteSignup(signup)
	}
	if err == domain.ErrNotFound {
		// Sin pre-registro: puede ser un usuario existente sin verificar
		// con una entrada verify-email en el ledger.
		return uc.verifyExistingEmail(email, in.OTP)
	}
	return nil, err
}

func (uc *AuthUseCase) promoteSignup(signup *entity.PendingSignup) (*dto.LoginResponse, error) {
	now := time.Now().UTC()
	user := &entity.User{
		ID:            uuid.New().String(),
		Email:         signup.Email,
		PasswordHash:  signup.PasswordHash,
		Name:          signup.Name,
		Role:          signup.Role,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if signup.CompanyName != "" {
		companyID, err := uc.resolveCompany(signup.CompanyName, user.ID)
		if err != nil {
			return nil, err
		}
		user.CompanyID = &companyID
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	// El borrado del pre-registro es el consumo del OTP.
	if err := uc.pending.Delete(signup.Email); err != nil {
		uc.log.Warn().Err(err).Str("email", signup.Email).Msg("borrado de pre-registro falló")
	}
	return uc.loginResponse(user)
}

// resolveCompany vincula a una empresa existente por nombre o crea una
// nueva con el usuario como dueño.
func (uc *AuthUseCase) resolveCompany(name, ownerID string) (string, error) {
	existing, err := uc.company.GetByName(name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	now := time.Now().UTC()
	c := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.company.Create(c); err != nil {
		return "", err
	}
	return c.ID, nil
}

func (uc *AuthUseCase) verifyExistingEmail(email, submitted string) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.EmailVerified {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.otp.VerifyLedger(user, entity.TokenVerifyEmail, submitted); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(user); err != nil {
		return nil, err
	}
	return uc.loginResponse(user)
}

// ResendOTP reemite el código, con throttle propio del endpoint. Para un
// pre-registro sobreescribe el OTP; para un usuario existente sin verificar
// emite una entrada verify-email nueva (que invalida la anterior). La
// respuesta es genérica en todos los casos para no enumerar emails.
func (uc *AuthUseCase) ResendOTP(in dto.ResendOTPRequest) error {
	email := normalizeEmail(in.Email)
	if err := uc.limiter.Allow(ratelimit.KeyResend, email); err != nil {
		return err
	}

	code, err := uc.otp.NewCode()
	if err != nil {
		return err
	}

	signup, err := uc.pending.GetByEmail(email)
	if err != nil {
		return err
	}
	if signup != nil {
		signup.OTP = code
		signup.OTPExpiresAt = uc.otp.ExpiresAt()
		if err := uc.pending.Upsert(signup); err != nil {
			return err
		}
		return uc.sendOTP(email, "signup", code)
	}

	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil || user.EmailVerified {
		// Respuesta genérica: no revelar si el email existe.
		return nil
	}
	if _, err := uc.tokens.IssueWithOTP(user, entity.TokenVerifyEmail, code); err != nil {
		return err
	}
	return uc.sendOTP(email, "verify-email", code)
}

func (uc *AuthUseCase) sendOTP(email, purpose, code string) error {
	if err := uc.mailer.SendOTP(email, purpose, code); err != nil {
		// El contador de reenvíos no se revierte: mejor sobre-castigar.
		uc.log.Warn().Err(err).Str("email", email).Str("purpose", purpose).Msg("envío de OTP falló")
	}
	return nil
}

// Login valida credenciales detrás del throttle "login:<email>". Email
// inexistente, password incorrecto y usuario federado sin hash devuelven
// el mismo ErrUnauthenticated: la respuesta nunca distingue los casos.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if err := uc.limiter.Allow(ratelimit.KeyLogin, email); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsLocal() {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if !user.EmailVerified {
		return nil, domain.ErrForbidden
	}
	if err := uc.limiter.Reset(ratelimit.KeyLogin, email); err != nil {
		uc.log.Warn().Err(err).Msg("reset de contador de login falló")
	}
	return uc.loginResponse(user)
}

// Refresh rota el refresh token: consumo atómico del jti viejo y emisión
// de un par nuevo. De dos rotaciones concurrentes exactamente una gana.
func (uc *AuthUseCase) Refresh(in dto.RefreshRequest) (*dto.TokenPairResponse, error) {
	claims, err := uc.tokens.Verify(in.RefreshToken, entity.TokenRefresh)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	refresh, err := uc.tokens.RotateRefresh(claims.ID, user)
	if err != nil {
		return nil, err
	}
	access, err := uc.tokens.Issue(user, entity.TokenAccess)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		ExpiresAt:    access.ExpiresAt,
	}, nil
}

// Logout consume el refresh token. Responde éxito aunque la entrada ya no
// exista, para no filtrar si el token existió.
func (uc *AuthUseCase) Logout(in dto.RefreshRequest) error {
	claims, err := uc.tokens.Verify(in.RefreshToken, entity.TokenRefresh)
	if err != nil {
		// Ya revocado o vencido: éxito igual, no se filtra si existió.
		if err == domain.ErrRevokedToken || err == domain.ErrExpiredToken {
			return nil
		}
		return err
	}
	return uc.tokens.Logout(claims.ID)
}

// ForgotPassword emite un reset token con OTP y lo envía. Respuesta
// genérica exista o no el email.
func (uc *AuthUseCase) ForgotPassword(in dto.ForgotPasswordRequest) error {
	email := normalizeEmail(in.Email)
	if err := uc.limiter.Allow(ratelimit.KeyResend, email); err != nil {
		return err
	}
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	code, err := uc.otp.NewCode()
	if err != nil {
		return err
	}
	if _, err := uc.tokens.IssueWithOTP(user, entity.TokenResetPassword, code); err != nil {
		return err
	}
	return uc.sendOTP(email, "reset-password", code)
}

// VerifyResetOTP verifica el OTP de reset (consumiendo esa entrada) y
// emite el token de un solo uso para el paso final.
func (uc *AuthUseCase) VerifyResetOTP(in dto.VerifyOTPRequest) (*dto.ResetTokenResponse, error) {
	email := normalizeEmail(in.Email)
	if err := uc.limiter.Allow(ratelimit.KeyOTP, email); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.otp.VerifyLedger(user, entity.TokenResetPassword, in.OTP); err != nil {
		return nil, err
	}
	issued, err := uc.tokens.Issue(user, entity.TokenResetPassword)
	if err != nil {
		return nil, err
	}
	return &dto.ResetTokenResponse{ResetToken: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// ResetPassword fija el password nuevo con el reset token y lo consume.
// Revoca además todos los refresh vigentes del usuario.
func (uc *AuthUseCase) ResetPassword(in dto.ResetPasswordRequest) error {
	claims, err := uc.tokens.Verify(in.ResetToken, entity.TokenResetPassword)
	if err != nil {
		return err
	}
	user, err := uc.users.GetByID(claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthenticated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// Consumo primero: dos resets concurrentes con el mismo token → uno gana.
	if err := uc.tokens.Consume(claims.ID); err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(user); err != nil {
		return err
	}
	return uc.revokeRefresh(user.ID)
}

// ChangePassword cambia el password de un usuario autenticado verificando
// el anterior, y revoca sus refresh vigentes.
func (uc *AuthUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if !user.IsLocal() {
		return domain.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		return domain.ErrUnauthenticated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(user); err != nil {
		return err
	}
	return uc.revokeRefresh(user.ID)
}

func (uc *AuthUseCase) revokeRefresh(userID string) error {
	return uc.tokens.RevokeByUserAndType(userID, entity.TokenRefresh)
}

func (uc *AuthUseCase) loginResponse(user *entity.User) (*dto.LoginResponse, error) {
	access, err := uc.tokens.Issue(user, entity.TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.tokens.Issue(user, entity.TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Tokens: dto.TokenPairResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh.Token,
			ExpiresAt:    access.ExpiresAt,
		},
		User: *ToUserResponse(user),
	}, nil
}

// ToUserResponse mapea la entidad a su DTO de salida.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		CompanyID:          u.CompanyID,
		EmailVerified:      u.EmailVerified,
		OnboardingComplete: u.OnboardingComplete,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
