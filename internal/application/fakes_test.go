package application_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

type fixture struct {
	service  *application.Service
	owners   *fakeOwners
	apps     *fakeApps
	licenses *fakeLicenses
	subusers *fakeSubUsers
	mailer   *fakeMailer
	codes    *fakeCodes
}

func newFixture() *fixture {
	return newFixtureWithConfig(application.Config{})
}

func newFixtureWithConfig(cfg application.Config) *fixture {
	owners := &fakeOwners{byID: map[uuid.UUID]domain.Owner{}}
	subusers := &fakeSubUsers{byID: map[uuid.UUID]domain.SubUser{}}
	licenses := &fakeLicenses{byID: map[uuid.UUID]domain.License{}, subusers: subusers}
	apps := &fakeApps{byID: map[uuid.UUID]domain.App{}, licenses: licenses, subusers: subusers}
	mailer := &fakeMailer{}
	codes := &fakeCodes{items: map[string]string{}}

	svc := application.NewService(application.Dependencies{
		Config:   cfg,
		Owners:   owners,
		Apps:     apps,
		Licenses: licenses,
		SubUsers: subusers,
		Hasher:   &fakeHasher{},
		Tokens:   &fakeTokens{},
		Mailer:   mailer,
		Captcha:  &fakeCaptcha{ok: true},
		Codes:    codes,
	})

	return &fixture{
		service:  svc,
		owners:   owners,
		apps:     apps,
		licenses: licenses,
		subusers: subusers,
		mailer:   mailer,
		codes:    codes,
	}
}

// seedOwner installs a verified owner directly in the store and returns
// it with credentials intact.
func (f *fixture) seedOwner(username, email, plan string) domain.Owner {
	owner := domain.Owner{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: "hash:Password1",
		Token:        "token-" + username,
		Verified:     true,
		Plan:         plan,
		CreatedAt:    time.Now().UTC(),
	}
	f.owners.byID[owner.ID] = owner
	return owner
}

func (f *fixture) capability(owner domain.Owner, elevated bool) application.Capability {
	return application.Capability{Owner: owner.Sanitized(), Elevated: elevated}
}

type fakeOwners struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Owner
}

func (f *fakeOwners) Create(_ context.Context, owner domain.Owner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byID {
		if o.Username == owner.Username || o.Email == owner.Email {
			return domain.ErrConflict
		}
	}
	f.byID[owner.ID] = owner
	return nil
}

func (f *fakeOwners) GetByID(_ context.Context, ownerID uuid.UUID) (domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[ownerID]
	if !ok {
		return domain.Owner{}, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeOwners) GetByEmail(_ context.Context, email string) (domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byID {
		if o.Email == email {
			return o, nil
		}
	}
	return domain.Owner{}, domain.ErrNotFound
}

func (f *fakeOwners) GetByToken(_ context.Context, token string) (domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byID {
		if o.Token == token {
			return o, nil
		}
	}
	return domain.Owner{}, domain.ErrNotFound
}

func (f *fakeOwners) List(_ context.Context) ([]domain.Owner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Owner, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOwners) SetVerified(_ context.Context, ownerID uuid.UUID, verified bool, _ time.Time) error {
	return f.mutate(ownerID, func(o *domain.Owner) { o.Verified = verified })
}

func (f *fakeOwners) SetEmailVerified(_ context.Context, ownerID uuid.UUID, verified bool, _ time.Time) error {
	return f.mutate(ownerID, func(o *domain.Owner) { o.EmailVerified = verified })
}

func (f *fakeOwners) UpdateEmail(_ context.Context, ownerID uuid.UUID, email string, _ time.Time) error {
	f.mu.Lock()
	for _, o := range f.byID {
		if o.Email == email && o.ID != ownerID {
			f.mu.Unlock()
			return domain.ErrConflict
		}
	}
	f.mu.Unlock()
	return f.mutate(ownerID, func(o *domain.Owner) {
		o.Email = email
		o.EmailVerified = false
	})
}

func (f *fakeOwners) UpdatePassword(_ context.Context, ownerID uuid.UUID, passwordHash string, _ time.Time) error {
	return f.mutate(ownerID, func(o *domain.Owner) { o.PasswordHash = passwordHash })
}

func (f *fakeOwners) SetBanned(_ context.Context, ownerID uuid.UUID, banned bool, _ time.Time) error {
	return f.mutate(ownerID, func(o *domain.Owner) { o.Banned = banned })
}

func (f *fakeOwners) Delete(_ context.Context, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[ownerID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, ownerID)
	return nil
}

func (f *fakeOwners) mutate(ownerID uuid.UUID, fn func(*domain.Owner)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[ownerID]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&o)
	f.byID[ownerID] = o
	return nil
}

type fakeApps struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]domain.App
	licenses *fakeLicenses
	subusers *fakeSubUsers
}

func (f *fakeApps) Create(_ context.Context, app domain.App) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.OwnerID == app.OwnerID && a.Name == app.Name {
			return domain.ErrConflict
		}
	}
	f.byID[app.ID] = app
	return nil
}

func (f *fakeApps) GetByID(_ context.Context, appID uuid.UUID) (domain.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[appID]
	if !ok {
		return domain.App{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeApps) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.App
	for _, a := range f.byID {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApps) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.byID {
		if a.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeApps) Rename(_ context.Context, appID uuid.UUID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[appID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, other := range f.byID {
		if other.OwnerID == a.OwnerID && other.Name == name && other.ID != appID {
			return domain.ErrConflict
		}
	}
	a.Name = name
	f.byID[appID] = a
	return nil
}

func (f *fakeApps) Update(_ context.Context, appID uuid.UUID, version *string, active *bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[appID]
	if !ok {
		return domain.ErrNotFound
	}
	if version != nil {
		a.Version = *version
	}
	if active != nil {
		a.Active = *active
	}
	f.byID[appID] = a
	return nil
}

func (f *fakeApps) Delete(_ context.Context, appID uuid.UUID) error {
	f.mu.Lock()
	if _, ok := f.byID[appID]; !ok {
		f.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(f.byID, appID)
	f.mu.Unlock()

	f.licenses.deleteByApp(appID)
	f.subusers.deleteByApp(appID)
	return nil
}

type fakeLicenses struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]domain.License
	subusers *fakeSubUsers
}

func (f *fakeLicenses) Create(_ context.Context, license domain.License) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.byID {
		if l.OwnerID == license.OwnerID && l.Name == license.Name {
			return domain.ErrConflict
		}
	}
	f.byID[license.ID] = license
	return nil
}

func (f *fakeLicenses) GetByID(_ context.Context, licenseID uuid.UUID) (domain.License, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[licenseID]
	if !ok {
		return domain.License{}, domain.ErrNotFound
	}
	return l, nil
}

func (f *fakeLicenses) GetByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (domain.License, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.byID {
		if l.OwnerID == ownerID && l.Name == name {
			return l, nil
		}
	}
	return domain.License{}, domain.ErrNotFound
}

func (f *fakeLicenses) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.License, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.License
	for _, l := range f.byID {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLicenses) UpdateExpiry(_ context.Context, licenseID uuid.UUID, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[licenseID]
	if !ok {
		return domain.ErrNotFound
	}
	l.ExpiresAt = expiresAt
	f.byID[licenseID] = l
	return nil
}

// Redeem mirrors the store's conditional update: the used flag flips
// exactly once under the lock, and the sub-user insert happens in the
// same critical section.
func (f *fakeLicenses) Redeem(ctx context.Context, licenseID uuid.UUID, user domain.SubUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byID[licenseID]
	if !ok {
		return domain.ErrNotFound
	}
	if l.Used {
		return domain.ErrLicenseUsed
	}
	l.Used = true
	f.byID[licenseID] = l
	if err := f.subusers.Create(ctx, user); err != nil {
		l.Used = false
		f.byID[licenseID] = l
		return err
	}
	return nil
}

func (f *fakeLicenses) Delete(_ context.Context, licenseID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[licenseID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, licenseID)
	return nil
}

func (f *fakeLicenses) deleteByApp(appID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, l := range f.byID {
		if l.AppID == appID {
			delete(f.byID, id)
		}
	}
}

type fakeSubUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.SubUser
}

func (f *fakeSubUsers) Create(_ context.Context, user domain.SubUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.OwnerID == user.OwnerID && u.Username == user.Username {
			return domain.ErrConflict
		}
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeSubUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.SubUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.SubUser{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeSubUsers) GetByLicense(_ context.Context, licenseID, ownerID uuid.UUID) (domain.SubUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.LicenseID != nil && *u.LicenseID == licenseID && u.OwnerID == ownerID {
			return u, nil
		}
	}
	return domain.SubUser{}, domain.ErrNotFound
}

func (f *fakeSubUsers) GetByUsername(_ context.Context, ownerID uuid.UUID, username string) (domain.SubUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.OwnerID == ownerID && u.Username == username {
			return u, nil
		}
	}
	return domain.SubUser{}, domain.ErrNotFound
}

func (f *fakeSubUsers) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.SubUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SubUser
	for _, u := range f.byID {
		if u.OwnerID == ownerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeSubUsers) Delete(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, userID)
	return nil
}

func (f *fakeSubUsers) deleteByApp(appID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.byID {
		if u.AppID == appID {
			delete(f.byID, id)
		}
	}
}

// fakeHasher keeps passwords recoverable for assertions.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hash:" + password, nil
}

func (fakeHasher) Compare(hashed, password string) error {
	if hashed != "hash:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type fakeTokens struct {
	mu sync.Mutex
	n  int
}

func (f *fakeTokens) NewToken(length int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("tok-%d-%s", f.n, strings.Repeat("x", length)), nil
}

type sentMail struct {
	kind    ports.MailKind
	to      string
	payload map[string]string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeMailer) Send(_ context.Context, kind ports.MailKind, to string, payload map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{kind: kind, to: to, payload: payload})
	return nil
}

func (f *fakeMailer) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].payload["code"]
}

type fakeCaptcha struct {
	ok bool
}

func (f *fakeCaptcha) Verify(context.Context, string) (bool, error) {
	return f.ok, nil
}

type fakeCodes struct {
	mu    sync.Mutex
	items map[string]string
}

func (f *fakeCodes) Put(_ context.Context, purpose ports.CodePurpose, key, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[string(purpose)+":"+key] = code
	return nil
}

func (f *fakeCodes) Get(_ context.Context, purpose ports.CodePurpose, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[string(purpose)+":"+key], nil
}

func (f *fakeCodes) Delete(_ context.Context, purpose ports.CodePurpose, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, string(purpose)+":"+key)
	return nil
}
