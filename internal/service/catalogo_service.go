package service

import (
	"context"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// CatalogoService manages venues, machine types and machines. Reads follow
// the caller's venue grid; writes are reserved to admins. Deleting a venue
// or a machine deactivates it so past records keep their rows.
type CatalogoService interface {
	ListarSalones(ctx context.Context, acc Acceso, p dto.PaginaFilter) ([]dto.SalonResponse, error)
	ObtenerSalon(ctx context.Context, acc Acceso, id int64) (*dto.SalonResponse, error)
	CrearSalon(ctx context.Context, acc Acceso, req dto.CrearSalonRequest) (*dto.SalonResponse, error)
	ActualizarSalon(ctx context.Context, acc Acceso, id int64, req dto.ActualizarSalonRequest) (*dto.SalonResponse, error)
	DesactivarSalon(ctx context.Context, acc Acceso, id int64) (*dto.SalonResponse, error)

	ListarTipos(ctx context.Context, p dto.PaginaFilter) ([]dto.TipoMaquinaResponse, error)
	CrearTipo(ctx context.Context, acc Acceso, req dto.CrearTipoMaquinaRequest) (*dto.TipoMaquinaResponse, error)

	ListarMaquinas(ctx context.Context, acc Acceso, f dto.ListarMaquinasFilter) ([]dto.MaquinaResponse, error)
	ObtenerMaquina(ctx context.Context, acc Acceso, id int64) (*dto.MaquinaResponse, error)
	CrearMaquina(ctx context.Context, acc Acceso, req dto.CrearMaquinaRequest) (*dto.MaquinaResponse, error)
	ActualizarMaquina(ctx context.Context, acc Acceso, id int64, req dto.ActualizarMaquinaRequest) (*dto.MaquinaResponse, error)
	DesactivarMaquina(ctx context.Context, acc Acceso, id int64) (*dto.MaquinaResponse, error)
}

type catalogoService struct {
	repo repository.CatalogoRepository
}

func NewCatalogoService(repo repository.CatalogoRepository) CatalogoService {
	return &catalogoService{repo: repo}
}

func (s *catalogoService) ListarSalones(ctx context.Context, acc Acceso, p dto.PaginaFilter) ([]dto.SalonResponse, error) {
	list, err := s.repo.ListSalones(ctx, acc.Visibles(), p.Skip, p.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalonResponse, 0, len(list))
	for i := range list {
		out = append(out, mapSalonCompleto(&list[i]))
	}
	return out, nil
}

func (s *catalogoService) ObtenerSalon(ctx context.Context, acc Acceso, id int64) (*dto.SalonResponse, error) {
	if !acc.PuedeVer(id) {
		return nil, noEncontrado("Salon not found")
	}
	salon, err := s.repo.FindSalon(ctx, id)
	if err != nil {
		return nil, comoNoEncontrado(err, "Salon not found")
	}
	resp := mapSalonCompleto(salon)
	return &resp, nil
}

func (s *catalogoService) CrearSalon(ctx context.Context, acc Acceso, req dto.CrearSalonRequest) (*dto.SalonResponse, error) {
	if !acc.Admin {
		return nil, sinPermiso()
	}
	salon := &model.Salon{Nombre: req.Nombre, Direccion: req.Direccion, Activo: true}
	if err := s.repo.CreateSalon(ctx, salon); err != nil {
		return nil, err
	}
	log.Info().Int64("salon_id", salon.ID).Str("nombre", salon.Nombre).Msg("salon creado")
	resp := mapSalonCompleto(salon)
	return &resp, nil
}

func (s *catalogoService) ActualizarSalon(ctx context.Context, acc Acceso, id int64, req dto.ActualizarSalonRequest) (*dto.SalonResponse, error) {
	if !acc.Admin {
		return nil, sinPermiso()
	}
	salon, err := s.repo.FindSalon(ctx, id)
	if err != nil {
		return nil, comoNoEncontrado(err, "Salon not found")
	}
	if req.Nombre != nil {
		salon.Nombre = *req.Nombre
	}
	if req.Direccion != nil {
		salon.Direccion = *req.Direccion
	}
	if req.Activo != nil {
		salon.Activo = *req.Activo
	}
	if err := s.repo.UpdateSalon(ctx, salon); err != nil {
		return nil, err
	}
	resp := mapSalonCompleto(salon)
	return &resp, nil
}

func (s *catalogoService) DesactivarSalon(ctx context.Context, acc Acceso, id int64) (*dto.SalonResponse, error) {
	inactivo := false
	return s.ActualizarSalon(ctx, acc, id, dto.ActualizarSalonRequest{Activo: &inactivo})
}

func (s *catalogoService) ListarTipos(ctx context.Context, p dto.PaginaFilter) ([]dto.TipoMaquinaResponse, error) {
	list, err := s.repo.ListTiposMaquina(ctx, p.Skip, p.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TipoMaquinaResponse, 0, len(list))
	for i := range list {
		out = append(out, mapTipoMaquina(&list[i]))
	}
	return out, nil
}

func (s *catalogoService) CrearTipo(ctx context.Context, acc Acceso, req dto.CrearTipoMaquinaRequest) (*dto.TipoMaquinaResponse, error) {
	if !acc.Admin {
		return nil, sinPermiso()
	}
	t := &model.TipoMaquina{
		Nombre:          req.Nombre,
		NombreCorto:     req.NombreCorto,
		TasaSemanalBase: req.TasaSemanalBase,
		TasaPorPuesto:   req.TasaPorPuesto,
		Activo:          true,
	}
	if err := s.repo.CreateTipoMaquina(ctx, t); err != nil {
		return nil, err
	}
	resp := mapTipoMaquina(t)
	return &resp, nil
}

func (s *catalogoService) ListarMaquinas(ctx context.Context, acc Acceso, f dto.ListarMaquinasFilter) ([]dto.MaquinaResponse, error) {
	filtro := repository.MaquinaFilter{SalonIDs: acc.Visibles(), Skip: f.Skip, Limit: f.Limit}
	if f.SalonID != nil {
		if !acc.PuedeVer(*f.SalonID) {
			return nil, sinPermiso()
		}
		filtro.SalonIDs = []int64{*f.SalonID}
	}
	list, err := s.repo.ListMaquinas(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaquinaResponse, 0, len(list))
	for i := range list {
		out = append(out, mapMaquina(&list[i]))
	}
	return out, nil
}

func (s *catalogoService) ObtenerMaquina(ctx context.Context, acc Acceso, id int64) (*dto.MaquinaResponse, error) {
	m, err := s.maquinaVisible(ctx, acc, id)
	if err != nil {
		return nil, err
	}
	resp := mapMaquina(m)
	return &resp, nil
}

func (s *catalogoService) CrearMaquina(ctx context.Context, acc Acceso, req dto.CrearMaquinaRequest) (*dto.MaquinaResponse, error) {
	if !acc.Admin {
		return nil, sinPermiso()
	}
	if _, err := s.repo.FindSalon(ctx, req.SalonID); err != nil {
		return nil, comoNoEncontrado(err, "Salon not found")
	}
	if _, err := s.repo.FindTipoMaquina(ctx, req.TipoMaquinaID); err != nil {
		return nil, comoNoEncontrado(err, "Machine type not found")
	}

	puestos := req.Puestos
	if puestos == 0 {
		puestos = 1
	}
	m := &model.Maquina{
		SalonID:             req.SalonID,
		TipoMaquinaID:       req.TipoMaquinaID,
		Nombre:              req.Nombre,
		NumeroSerie:         req.NumeroSerie,
		TasaSemanalOverride: req.TasaSemanalOverride,
		Activo:              true,
	}
	for n := 1; n <= puestos; n++ {
		m.Puestos = append(m.Puestos, model.Puesto{NumeroPuesto: n, Activo: true})
	}
	if err := s.repo.CreateMaquina(ctx, m); err != nil {
		return nil, err
	}
	log.Info().Int64("maquina_id", m.ID).Int64("salon_id", m.SalonID).Int("puestos", puestos).Msg("maquina creada")
	return s.ObtenerMaquina(ctx, acc, m.ID)
}

func (s *catalogoService) ActualizarMaquina(ctx context.Context, acc Acceso, id int64, req dto.ActualizarMaquinaRequest) (*dto.MaquinaResponse, error) {
	if !acc.Admin {
		return nil, sinPermiso()
	}
	m, err := s.repo.FindMaquina(ctx, id)
	if err != nil {
		return nil, comoNoEncontrado(err, "Machine not found")
	}
	if req.TipoMaquinaID != nil && *req.TipoMaquinaID != m.TipoMaquinaID {
		if _, err := s.repo.FindTipoMaquina(ctx, *req.TipoMaquinaID); err != nil {
			return nil, comoNoEncontrado(err, "Machine type not found")
		}
		m.TipoMaquinaID = *req.TipoMaquinaID
	}
	if req.Nombre != nil {
		m.Nombre = *req.Nombre
	}
	if req.NumeroSerie != nil {
		m.NumeroSerie = *req.NumeroSerie
	}
	if c := req.TasaSemanalOverride; c.Set {
		if c.Null {
			m.TasaSemanalOverride = nil
		} else {
			v := c.Valor
			m.TasaSemanalOverride = &v
		}
	}
	if req.Activo != nil {
		m.Activo = *req.Activo
	}
	if err := s.repo.UpdateMaquina(ctx, m); err != nil {
		return nil, err
	}
	return s.ObtenerMaquina(ctx, acc, id)
}

func (s *catalogoService) DesactivarMaquina(ctx context.Context, acc Acceso, id int64) (*dto.MaquinaResponse, error) {
	inactiva := false
	return s.ActualizarMaquina(ctx, acc, id, dto.ActualizarMaquinaRequest{Activo: &inactiva})
}

// maquinaVisible loads a machine; one outside the grid is reported missing.
func (s *catalogoService) maquinaVisible(ctx context.Context, acc Acceso, id int64) (*model.Maquina, error) {
	m, err := s.repo.FindMaquina(ctx, id)
	if err != nil {
		return nil, comoNoEncontrado(err, "Machine not found")
	}
	if !acc.PuedeVer(m.SalonID) {
		return nil, noEncontrado("Machine not found")
	}
	return m, nil
}
