package auth

import (
	"errors"
	"time"

	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
	"github.com/jhoicas/Pantallas-api/pkg/config"
	"github.com/jhoicas/Pantallas-api/pkg/token"
)

// TokenService es el ciclo de vida de tokens: emisión firmada, verificación,
// consumo de un solo uso y rotación de refresh. Los access son bearer puros
// (firma + TTL corto, sin ledger); todo tipo no-access se persiste en el
// ledger y es de un solo uso.
type TokenService struct {
	repo repository.TokenRepository
	cfg  config.JWTConfig
}

// NewTokenService construye el gestor de tokens.
func NewTokenService(repo repository.TokenRepository, cfg config.JWTConfig) *TokenService {
	return &TokenService{repo: repo, cfg: cfg}
}

func (s *TokenService) ttlFor(tokenType string) time.Duration {
	switch tokenType {
	case entity.TokenAccess:
		return s.cfg.AccessTTL
	case entity.TokenRefresh:
		return s.cfg.RefreshTTL
	case entity.TokenResetPassword:
		return s.cfg.ResetTTL
	case entity.TokenVerifyEmail:
		return s.cfg.VerifyTTL
	}
	return s.cfg.AccessTTL
}

// Issue emite un token firmado del tipo dado. Para tipos no-access escribe
// además la entrada del ledger; emitir invalida cualquier token previo del
// mismo tipo para ese usuario.
func (s *TokenService) Issue(user *entity.User, tokenType string) (token.Issued, error) {
	return s.issue(user, tokenType, "")
}

// IssueWithOTP emite un token no-access guardando el OTP junto a la entrada
// del ledger (reset-password / verify-email).
func (s *TokenService) IssueWithOTP(user *entity.User, tokenType, otp string) (token.Issued, error) {
	return s.issue(user, tokenType, otp)
}

func (s *TokenService) issue(user *entity.User, tokenType, otp string) (token.Issued, error) {
	role, companyID := "", (*string)(nil)
	if tokenType == entity.TokenAccess {
		// Sólo el access lleva role/company: el middleware decide RBAC
		// sin consultar la DB.
		role = user.Role
		companyID = user.CompanyID
	}
	issued, err := token.Generate(s.cfg.Secret, s.cfg.Issuer, user.ID, tokenType, role, companyID, s.ttlFor(tokenType))
	if err != nil {
		return token.Issued{}, err
	}
	if entity.PersistedTokenType(tokenType) {
		if err := s.repo.DeleteByUserAndType(user.ID, tokenType); err != nil {
			return token.Issued{}, err
		}
		entry := &entity.TokenLedgerEntry{
			JTI:       issued.JTI,
			UserID:    user.ID,
			Type:      tokenType,
			ExpiresAt: issued.ExpiresAt,
			OTP:       otp,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repo.Create(entry); err != nil {
			return token.Issued{}, err
		}
	}
	return issued, nil
}

// Verify decodifica y valida firma, expiración y tipo. Para tipos no-access
// exige además la entrada del ledger: ausente o blacklisted es RevokedToken.
// Para access no hay chequeo de ledger — su única defensa es TTL corto y
// firma, y el caller trata las tres fallas igual: re-autenticarse.
func (s *TokenService) Verify(tokenString, expectedType string) (*token.Claims, error) {
	claims, err := token.Parse(s.cfg.Secret, tokenString)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, domain.ErrInvalidToken
	}
	if entity.PersistedTokenType(expectedType) {
		entry, err := s.repo.GetByJTI(claims.ID)
		if err != nil {
			return nil, err
		}
		if entry == nil || entry.Blacklisted {
			return nil, domain.ErrRevokedToken
		}
		if entry.Expired(time.Now().UTC()) {
			return nil, domain.ErrExpiredToken
		}
	}
	return claims, nil
}

// Consume borra la entrada del ledger exigiendo ganar la carrera: de dos
// consumos concurrentes del mismo jti exactamente uno recibe nil y el otro
// RevokedToken. Para el consumo tolerante a reintentos está Logout.
func (s *TokenService) Consume(jti string) error {
	consumed, err := s.repo.Consume(jti)
	if err != nil {
		return err
	}
	if !consumed {
		return domain.ErrRevokedToken
	}
	return nil
}

// RotateRefresh consume el jti viejo y emite un refresh nuevo. El consumo es
// atómico a nivel de store: si dos rotaciones corren con el mismo jti,
// exactamente una gana y la otra recibe RevokedToken.
func (s *TokenService) RotateRefresh(oldJTI string, user *entity.User) (token.Issued, error) {
	consumed, err := s.repo.Consume(oldJTI)
	if err != nil {
		return token.Issued{}, err
	}
	if !consumed {
		return token.Issued{}, domain.ErrRevokedToken
	}
	return s.Issue(user, entity.TokenRefresh)
}

// Logout consume el jti y responde éxito aunque el token ya no exista, para
// no filtrar si alguna vez existió.
func (s *TokenService) Logout(jti string) error {
	_, err := s.repo.Consume(jti)
	return err
}

// RevokeByUserAndType invalida todos los tokens vigentes de un tipo para el
// usuario (p.ej. los refresh tras un cambio de password).
func (s *TokenService) RevokeByUserAndType(userID, tokenType string) error {
	return s.repo.DeleteByUserAndType(userID, tokenType)
}
