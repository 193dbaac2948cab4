package services

import (
	"context"
	"sync"
	"time"

	"plataforma/pkg/auth"
	"plataforma/pkg/models"
	"plataforma/pkg/repository"
)

type fakeServicosRepo struct {
	mu       sync.Mutex
	rows     map[int]models.Servico
	nextID   int
	listed   int
	failWith error
}

func newFakeServicosRepo() *fakeServicosRepo {
	return &fakeServicosRepo{rows: map[int]models.Servico{}}
}

func (f *fakeServicosRepo) Criar(_ context.Context, s models.Servico) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextID++
	s.ID = f.nextID
	f.rows[s.ID] = s
	return s.ID, nil
}

func (f *fakeServicosRepo) Listar(context.Context) ([]models.Servico, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := []models.Servico{}
	for i := 1; i <= f.nextID; i++ {
		if s, ok := f.rows[i]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeServicosRepo) BuscarPorID(_ context.Context, id int) (models.Servico, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return models.Servico{}, repository.ErrNaoEncontrado
	}
	return s, nil
}

func (f *fakeServicosRepo) Atualizar(_ context.Context, id int, req models.ServicoRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return repository.ErrNaoEncontrado
	}
	s.Nome, s.Descricao, s.Categoria = req.Nome, req.Descricao, req.Categoria
	f.rows[id] = s
	return nil
}

func (f *fakeServicosRepo) Deletar(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNaoEncontrado
	}
	delete(f.rows, id)
	return nil
}

type fakeUsuariosRepo struct {
	byEmail  map[string]models.Usuario
	failWith error
}

func (f *fakeUsuariosRepo) Criar(_ context.Context, u models.Usuario) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return 0, repository.ErrDuplicado
	}
	u.ID = len(f.byEmail) + 1
	f.byEmail[u.Email] = u
	return u.ID, nil
}

func (f *fakeUsuariosRepo) BuscarPorEmail(_ context.Context, email string) (models.Usuario, error) {
	if f.failWith != nil {
		return models.Usuario{}, f.failWith
	}
	u, ok := f.byEmail[email]
	if !ok {
		return models.Usuario{}, repository.ErrNaoEncontrado
	}
	return u, nil
}

func (f *fakeUsuariosRepo) BuscarPorID(_ context.Context, id int) (models.Usuario, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.Senha = ""
			return u, nil
		}
	}
	return models.Usuario{}, repository.ErrNaoEncontrado
}

func (f *fakeUsuariosRepo) Listar(context.Context) ([]models.Usuario, error) {
	out := []models.Usuario{}
	for _, u := range f.byEmail {
		u.Senha = ""
		out = append(out, u)
	}
	return out, nil
}

type recordingIssuer struct {
	principal auth.Principal
	ttl       time.Duration
}

func (r *recordingIssuer) Issue(p auth.Principal, ttl time.Duration) (string, error) {
	r.principal, r.ttl = p, ttl
	return "signed-token", nil
}
