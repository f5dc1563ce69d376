package auth

import (
	"sync"

	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia. El ledger usa mutex porque
// los tests de rotación lo golpean desde varias goroutines; Consume replica la
// semántica find-and-delete atómica del DELETE ... RETURNING de postgres.

// ──────────────────────────────────────────────────────────────────────────────
// fakeTokenRepo
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.TokenRepository = (*fakeTokenRepo)(nil)

type fakeTokenRepo struct {
	mu      sync.Mutex
	entries map[string]*entity.TokenLedgerEntry // jti → entrada
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{entries: make(map[string]*entity.TokenLedgerEntry)}
}

func (r *fakeTokenRepo) Create(entry *entity.TokenLedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries[entry.JTI] = &cp
	return nil
}

func (r *fakeTokenRepo) GetByJTI(jti string) (*entity.TokenLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[jti]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeTokenRepo) GetByUserAndType(userID, tokenType string) (*entity.TokenLedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.TokenLedgerEntry
	for _, e := range r.entries {
		if e.UserID != userID || e.Type != tokenType {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeTokenRepo) Consume(jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[jti]; !ok {
		return false, nil
	}
	delete(r.entries, jti)
	return true, nil
}

func (r *fakeTokenRepo) UpdateOTPAttempts(jti string, attempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[jti]; ok {
		e.OTPAttempts = attempts
	}
	return nil
}

func (r *fakeTokenRepo) DeleteByUserAndType(userID, tokenType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for jti, e := range r.entries {
		if e.UserID == userID && e.Type == tokenType {
			delete(r.entries, jti)
		}
	}
	return nil
}

func (r *fakeTokenRepo) PurgeExpired() (int64, error) {
	return 0, nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeUserRepo
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeUserRepo también lleva mutex: los tests de reset concurrente lo leen y
// escriben desde varias goroutines.
type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.byID {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeCompanyRepo
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.CompanyRepository = (*fakeCompanyRepo)(nil)

type fakeCompanyRepo struct {
	byID map[string]*entity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{byID: make(map[string]*entity.Company)}
}

func (r *fakeCompanyRepo) Create(company *entity.Company) error {
	cp := *company
	r.byID[company.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompanyRepo) GetByName(name string) (*entity.Company, error) {
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) Update(company *entity.Company) error {
	cp := *company
	r.byID[company.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakePendingRepo
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.PendingSignupRepository = (*fakePendingRepo)(nil)

type fakePendingRepo struct {
	byEmail map[string]*entity.PendingSignup
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{byEmail: make(map[string]*entity.PendingSignup)}
}

func (r *fakePendingRepo) Upsert(signup *entity.PendingSignup) error {
	cp := *signup
	r.byEmail[signup.Email] = &cp
	return nil
}

func (r *fakePendingRepo) GetByEmail(email string) (*entity.PendingSignup, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePendingRepo) Delete(email string) error {
	delete(r.byEmail, email)
	return nil
}

func (r *fakePendingRepo) PurgeExpired() (int64, error) {
	return 0, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// fakeMailer
// ──────────────────────────────────────────────────────────────────────────────

var _ Mailer = (*fakeMailer)(nil)

// fakeMailer registra los OTP enviados; los tests de flujo leen el último
// código como lo haría el usuario desde su bandeja.
type fakeMailer struct {
	lastEmail   string
	lastPurpose string
	lastCode    string
	sent        int
}

func (m *fakeMailer) SendOTP(email, purpose, code string) error {
	m.lastEmail = email
	m.lastPurpose = purpose
	m.lastCode = code
	m.sent++
	return nil
}
