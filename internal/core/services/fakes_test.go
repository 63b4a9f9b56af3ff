package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyInUse
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeAuthRepo struct {
	mu            sync.Mutex
	users         *fakeUserRepo
	sessions      map[uuid.UUID]*domain.Session
	resets        map[string]*domain.Token
	verifications map[string]*domain.Token
}

func newFakeAuthRepo(users *fakeUserRepo) *fakeAuthRepo {
	return &fakeAuthRepo{
		users:         users,
		sessions:      map[uuid.UUID]*domain.Session{},
		resets:        map[string]*domain.Token{},
		verifications: map[string]*domain.Token{},
	}
}

func (r *fakeAuthRepo) StoreSession(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeAuthRepo) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeAuthRepo) RevokeSession(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Revoked = true
	}
	return nil
}

func (r *fakeAuthRepo) CreatePasswordReset(ctx context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.resets[token.TokenHash] = &cp
	return nil
}

func (r *fakeAuthRepo) GetPasswordReset(ctx context.Context, tokenHash string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.resets[tokenHash]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeAuthRepo) ResetPassword(ctx context.Context, tokenHash, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.resets[tokenHash]
	if !ok || !t.Valid(time.Now()) {
		return domain.ErrInvalidResetToken
	}
	t.Used = true

	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	r.users.users[t.UserID].PasswordHash = passwordHash
	return nil
}

func (r *fakeAuthRepo) CreateEmailVerification(ctx context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.verifications[token.TokenHash] = &cp
	return nil
}

func (r *fakeAuthRepo) GetEmailVerification(ctx context.Context, tokenHash string) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.verifications[tokenHash]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeAuthRepo) RevokeEmailVerifications(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.verifications {
		if t.UserID == userID {
			t.Deleted = true
		}
	}
	return nil
}

func (r *fakeAuthRepo) VerifyEmail(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.verifications[tokenHash]
	if !ok || !t.Valid(time.Now()) {
		return domain.ErrInvalidVerifyToken
	}
	t.Used = true

	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	r.users.users[t.UserID].EmailVerified = true
	return nil
}

func (r *fakeAuthRepo) PurgeExpired(ctx context.Context) (ports.PurgeResult, error) {
	return ports.PurgeResult{}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg ports.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() ports.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ports.Email{}
	}
	return m.sent[len(m.sent)-1]
}

type fakeVerifier struct {
	payload *ports.TokenPayload
}

func (v *fakeVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if token != "valid_token" || v.payload == nil {
		return nil, domain.Auth("bad google token")
	}
	return v.payload, nil
}

type fakeFarmRepo struct {
	farms    map[uuid.UUID]*domain.Farm
	calls    int
	lastPage ports.Pagination
}

func newFakeFarmRepo() *fakeFarmRepo {
	return &fakeFarmRepo{farms: map[uuid.UUID]*domain.Farm{}}
}

func (r *fakeFarmRepo) Create(ctx context.Context, farm *domain.Farm) error {
	r.calls++
	cp := *farm
	r.farms[farm.ID] = &cp
	return nil
}

func (r *fakeFarmRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error) {
	r.calls++
	f, ok := r.farms[id]
	if !ok || f.UserID != userID {
		return nil, domain.ErrFarmNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFarmRepo) List(ctx context.Context, userID uuid.UUID, page ports.Pagination) ([]*domain.Farm, error) {
	r.calls++
	r.lastPage = page
	farms := []*domain.Farm{}
	for _, f := range r.farms {
		if f.UserID == userID {
			farms = append(farms, f)
		}
	}
	return farms, nil
}

func (r *fakeFarmRepo) Update(ctx context.Context, farm *domain.Farm) error {
	r.calls++
	cp := *farm
	r.farms[farm.ID] = &cp
	return nil
}

func (r *fakeFarmRepo) Delete(ctx context.Context, id, userID uuid.UUID) (*domain.Farm, error) {
	r.calls++
	f, ok := r.farms[id]
	if !ok || f.UserID != userID {
		return nil, domain.ErrFarmNotFound
	}
	delete(r.farms, id)
	return f, nil
}

func (r *fakeFarmRepo) GetOwner(ctx context.Context, farmID uuid.UUID) (uuid.UUID, error) {
	r.calls++
	f, ok := r.farms[farmID]
	if !ok {
		return uuid.Nil, domain.ErrFarmNotFound
	}
	return f.UserID, nil
}

type fakeHutchRepo struct {
	hutches   map[uuid.UUID]*domain.Hutch
	calls     int
	lastQuery ports.HutchQuery
}

func newFakeHutchRepo() *fakeHutchRepo {
	return &fakeHutchRepo{hutches: map[uuid.UUID]*domain.Hutch{}}
}

func (r *fakeHutchRepo) Create(ctx context.Context, hutch *domain.Hutch) error {
	r.calls++
	cp := *hutch
	r.hutches[hutch.ID] = &cp
	return nil
}

func (r *fakeHutchRepo) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error) {
	r.calls++
	h, ok := r.hutches[id]
	if !ok || h.FarmID != farmID {
		return nil, domain.ErrHutchNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *fakeHutchRepo) List(ctx context.Context, farmID uuid.UUID, query ports.HutchQuery) ([]*domain.Hutch, error) {
	r.calls++
	r.lastQuery = query
	return []*domain.Hutch{}, nil
}

func (r *fakeHutchRepo) Update(ctx context.Context, hutch *domain.Hutch) error {
	r.calls++
	cp := *hutch
	r.hutches[hutch.ID] = &cp
	return nil
}

func (r *fakeHutchRepo) Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.Hutch, error) {
	r.calls++
	h, ok := r.hutches[id]
	if !ok || h.FarmID != farmID {
		return nil, domain.ErrHutchNotFound
	}
	delete(r.hutches, id)
	return h, nil
}

func (r *fakeHutchRepo) ListRemovals(ctx context.Context, hutchID, farmID uuid.UUID) ([]*domain.RabbitRemoval, error) {
	r.calls++
	return []*domain.RabbitRemoval{}, nil
}

type fakeRabbitRepo struct {
	rabbits     map[uuid.UUID]*domain.Rabbit
	removals    []*domain.RabbitRemoval
	calls       int
	lastQuery   ports.RabbitQuery
	lastPrevHut *uuid.UUID
}

func newFakeRabbitRepo() *fakeRabbitRepo {
	return &fakeRabbitRepo{rabbits: map[uuid.UUID]*domain.Rabbit{}}
}

func (r *fakeRabbitRepo) add(farmID uuid.UUID, gender, status string) *domain.Rabbit {
	rabbit := &domain.Rabbit{
		ID:     uuid.New(),
		FarmID: farmID,
		Tag:    uuid.NewString()[:8],
		Gender: gender,
		Status: status,
	}
	r.rabbits[rabbit.ID] = rabbit
	return rabbit
}

func (r *fakeRabbitRepo) Create(ctx context.Context, rabbit *domain.Rabbit) error {
	r.calls++
	cp := *rabbit
	r.rabbits[rabbit.ID] = &cp
	return nil
}

func (r *fakeRabbitRepo) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.Rabbit, error) {
	r.calls++
	rabbit, ok := r.rabbits[id]
	if !ok || rabbit.FarmID != farmID {
		return nil, domain.ErrRabbitNotFound
	}
	cp := *rabbit
	return &cp, nil
}

func (r *fakeRabbitRepo) List(ctx context.Context, farmID uuid.UUID, query ports.RabbitQuery) ([]*domain.Rabbit, error) {
	r.calls++
	r.lastQuery = query
	return []*domain.Rabbit{}, nil
}

func (r *fakeRabbitRepo) Update(ctx context.Context, rabbit *domain.Rabbit, previousHutch *uuid.UUID) error {
	r.calls++
	r.lastPrevHut = previousHutch
	cp := *rabbit
	r.rabbits[rabbit.ID] = &cp
	return nil
}

func (r *fakeRabbitRepo) Remove(ctx context.Context, removal *domain.RabbitRemoval) (*domain.Rabbit, error) {
	r.calls++
	rabbit, ok := r.rabbits[removal.RabbitID]
	if !ok || rabbit.FarmID != removal.FarmID || rabbit.Status != domain.RabbitStatusActive {
		return nil, domain.ErrRabbitNotFound
	}
	r.removals = append(r.removals, removal)
	prev := *rabbit
	rabbit.Status = domain.RabbitStatusRemoved
	return &prev, nil
}

type fakeBreedingRepo struct {
	records map[uuid.UUID]*domain.BreedingRecord
	kits    map[uuid.UUID]*domain.KitRecord
	pending []*domain.BreedingRecord
	litters []*domain.BreedingRecord
	calls   int
}

func newFakeBreedingRepo() *fakeBreedingRepo {
	return &fakeBreedingRepo{
		records: map[uuid.UUID]*domain.BreedingRecord{},
		kits:    map[uuid.UUID]*domain.KitRecord{},
	}
}

func (r *fakeBreedingRepo) Create(ctx context.Context, record *domain.BreedingRecord) error {
	r.calls++
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeBreedingRepo) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error) {
	r.calls++
	rec, ok := r.records[id]
	if !ok || rec.FarmID != farmID {
		return nil, domain.ErrBreedingNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeBreedingRepo) List(ctx context.Context, farmID uuid.UUID, page ports.Pagination) ([]*domain.BreedingRecord, error) {
	r.calls++
	return []*domain.BreedingRecord{}, nil
}

func (r *fakeBreedingRepo) Update(ctx context.Context, record *domain.BreedingRecord) error {
	r.calls++
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeBreedingRepo) Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.BreedingRecord, error) {
	r.calls++
	rec, ok := r.records[id]
	if !ok || rec.FarmID != farmID {
		return nil, domain.ErrBreedingNotFound
	}
	delete(r.records, id)
	return rec, nil
}

func (r *fakeBreedingRepo) AddKits(ctx context.Context, recordID, farmID uuid.UUID, kits []*domain.KitRecord) error {
	r.calls++
	for _, k := range kits {
		cp := *k
		r.kits[k.ID] = &cp
	}
	r.records[recordID].NumberOfKits += len(kits)
	return nil
}

func (r *fakeBreedingRepo) ListKits(ctx context.Context, recordID, farmID uuid.UUID) ([]*domain.KitRecord, error) {
	r.calls++
	kits := []*domain.KitRecord{}
	for _, k := range r.kits {
		if k.BreedingRecordID == recordID && k.FarmID == farmID {
			kits = append(kits, k)
		}
	}
	return kits, nil
}

func (r *fakeBreedingRepo) GetKit(ctx context.Context, kitID, recordID, farmID uuid.UUID) (*domain.KitRecord, error) {
	r.calls++
	k, ok := r.kits[kitID]
	if !ok || k.BreedingRecordID != recordID || k.FarmID != farmID {
		return nil, domain.ErrKitNotFound
	}
	cp := *k
	return &cp, nil
}

func (r *fakeBreedingRepo) UpdateKit(ctx context.Context, kit *domain.KitRecord) error {
	r.calls++
	cp := *kit
	r.kits[kit.ID] = &cp
	return nil
}

func (r *fakeBreedingRepo) DeleteKit(ctx context.Context, kitID, recordID, farmID uuid.UUID) (*domain.KitRecord, error) {
	r.calls++
	k, ok := r.kits[kitID]
	if !ok || k.BreedingRecordID != recordID || k.FarmID != farmID {
		return nil, domain.ErrKitNotFound
	}
	delete(r.kits, kitID)
	return k, nil
}

func (r *fakeBreedingRepo) ListPendingBirths(ctx context.Context, farmID uuid.UUID) ([]*domain.BreedingRecord, error) {
	r.calls++
	return r.pending, nil
}

func (r *fakeBreedingRepo) ListUnweanedLitters(ctx context.Context, farmID uuid.UUID, bornBefore time.Time) ([]*domain.BreedingRecord, error) {
	r.calls++
	litters := []*domain.BreedingRecord{}
	for _, rec := range r.litters {
		if rec.ActualBirthDate != nil && !rec.ActualBirthDate.After(bornBefore) {
			litters = append(litters, rec)
		}
	}
	return litters, nil
}

type fakeEarningsRepo struct {
	records   map[uuid.UUID]*domain.EarningsRecord
	calls     int
	lastQuery ports.EarningsQuery
}

func newFakeEarningsRepo() *fakeEarningsRepo {
	return &fakeEarningsRepo{records: map[uuid.UUID]*domain.EarningsRecord{}}
}

func (r *fakeEarningsRepo) Create(ctx context.Context, record *domain.EarningsRecord) error {
	r.calls++
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeEarningsRepo) GetByID(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error) {
	r.calls++
	rec, ok := r.records[id]
	if !ok || rec.FarmID != farmID {
		return nil, domain.ErrEarningNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeEarningsRepo) List(ctx context.Context, farmID uuid.UUID, query ports.EarningsQuery) ([]*domain.EarningsRecord, error) {
	r.calls++
	r.lastQuery = query
	return []*domain.EarningsRecord{}, nil
}

func (r *fakeEarningsRepo) Update(ctx context.Context, record *domain.EarningsRecord) error {
	r.calls++
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeEarningsRepo) Delete(ctx context.Context, id, farmID uuid.UUID) (*domain.EarningsRecord, error) {
	r.calls++
	rec, ok := r.records[id]
	if !ok || rec.FarmID != farmID {
		return nil, domain.ErrEarningNotFound
	}
	delete(r.records, id)
	return rec, nil
}
