package service

import (
	"context"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// RecaudacionService covers the collection records and their rows. Every
// call is checked against the caller's venue grid.
type RecaudacionService interface {
	Listar(ctx context.Context, acc Acceso, f dto.ListarRecaudacionesFilter) ([]dto.RecaudacionSummary, error)
	UltimaFechaFin(ctx context.Context, acc Acceso, salonID int64) (*dto.Fecha, error)
	Crear(ctx context.Context, acc Acceso, req dto.CrearRecaudacionRequest) (*dto.RecaudacionResponse, error)
	Obtener(ctx context.Context, acc Acceso, id int64) (*dto.RecaudacionResponse, error)
	Actualizar(ctx context.Context, acc Acceso, id int64, req dto.ActualizarRecaudacionRequest) (*dto.RecaudacionResponse, error)
	Eliminar(ctx context.Context, acc Acceso, id int64) error
	ActualizarDetalle(ctx context.Context, acc Acceso, detalleID int64, req dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error)
}

type recaudacionService struct {
	repo     repository.RecaudacionRepository
	catalogo repository.CatalogoRepository
}

func NewRecaudacionService(repo repository.RecaudacionRepository, catalogo repository.CatalogoRepository) RecaudacionService {
	return &recaudacionService{repo: repo, catalogo: catalogo}
}

func (s *recaudacionService) Listar(ctx context.Context, acc Acceso, f dto.ListarRecaudacionesFilter) ([]dto.RecaudacionSummary, error) {
	filtro := repository.RecaudacionFilter{SalonIDs: acc.Visibles(), Skip: f.Skip, Limit: f.Limit}
	if f.SalonID != nil {
		if !acc.PuedeVer(*f.SalonID) {
			return nil, sinPermiso()
		}
		filtro.SalonIDs = []int64{*f.SalonID}
	}
	list, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecaudacionSummary, 0, len(list))
	for i := range list {
		out = append(out, mapResumen(&list[i]))
	}
	return out, nil
}

func (s *recaudacionService) UltimaFechaFin(ctx context.Context, acc Acceso, salonID int64) (*dto.Fecha, error) {
	if !acc.PuedeVer(salonID) {
		return nil, sinPermiso()
	}
	fin, err := s.repo.LastFechaFin(ctx, salonID)
	if err != nil || fin == nil {
		return nil, err
	}
	f := dto.NewFecha(*fin)
	return &f, nil
}

// Crear opens a record with one empty row per active seat of the venue, or
// one row per machine that has no seats. Amounts start at zero.
func (s *recaudacionService) Crear(ctx context.Context, acc Acceso, req dto.CrearRecaudacionRequest) (*dto.RecaudacionResponse, error) {
	if fields := dto.ValidarPeriodo(req.FechaInicio, req.FechaFin); fields != nil {
		return nil, camposInvalidos(fields)
	}
	if !acc.PuedeEditar(req.SalonID) {
		return nil, sinPermiso()
	}
	if _, err := s.catalogo.FindSalon(ctx, req.SalonID); err != nil {
		return nil, comoNoEncontrado(err, "Salon no encontrado")
	}
	maquinas, err := s.catalogo.ListMaquinasActivas(ctx, req.SalonID)
	if err != nil {
		return nil, err
	}

	origen := req.Origen
	if origen == "" {
		origen = "manual"
	}
	rec := &model.Recaudacion{
		SalonID:           req.SalonID,
		FechaInicio:       req.FechaInicio.Time,
		FechaFin:          req.FechaFin.Time,
		FechaCierre:       req.FechaCierre.Time,
		Etiqueta:          req.Etiqueta,
		Origen:            origen,
		ReferenciaFichero: req.ReferenciaFichero,
		Notas:             req.Notas,
		Detalles:          filasVacias(maquinas),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	log.Info().
		Int64("recaudacion_id", rec.ID).
		Int64("salon_id", rec.SalonID).
		Int("filas", len(rec.Detalles)).
		Msg("recaudacion creada")
	return s.Obtener(ctx, acc, rec.ID)
}

func filasVacias(maquinas []model.Maquina) []model.RecaudacionMaquina {
	var filas []model.RecaudacionMaquina
	for _, m := range maquinas {
		if len(m.Puestos) == 0 {
			filas = append(filas, model.RecaudacionMaquina{MaquinaID: m.ID})
			continue
		}
		for _, p := range m.Puestos {
			puestoID := p.ID
			filas = append(filas, model.RecaudacionMaquina{MaquinaID: m.ID, PuestoID: &puestoID})
		}
	}
	return filas
}

func (s *recaudacionService) Obtener(ctx context.Context, acc Acceso, id int64) (*dto.RecaudacionResponse, error) {
	rec, err := s.cargar(ctx, acc, id, false)
	if err != nil {
		return nil, err
	}
	resp := mapRecaudacion(rec)
	return &resp, nil
}

func (s *recaudacionService) Actualizar(ctx context.Context, acc Acceso, id int64, req dto.ActualizarRecaudacionRequest) (*dto.RecaudacionResponse, error) {
	rec, err := s.cargar(ctx, acc, id, true)
	if err != nil {
		return nil, err
	}

	if req.FechaInicio != nil {
		rec.FechaInicio = req.FechaInicio.Time
	}
	if req.FechaFin != nil {
		rec.FechaFin = req.FechaFin.Time
	}
	if req.FechaCierre != nil {
		rec.FechaCierre = req.FechaCierre.Time
	}
	if fields := dto.ValidarPeriodo(dto.NewFecha(rec.FechaInicio), dto.NewFecha(rec.FechaFin)); fields != nil {
		return nil, camposInvalidos(fields)
	}
	if req.Etiqueta != nil {
		rec.Etiqueta = *req.Etiqueta
	}
	if req.Notas != nil {
		rec.Notas = *req.Notas
	}
	if req.TotalTasas.Set {
		if req.TotalTasas.Null {
			rec.TotalTasas = nil
		} else {
			v := req.TotalTasas.Valor
			rec.TotalTasas = &v
		}
	}
	if req.Depositos != nil {
		rec.Depositos = *req.Depositos
	}
	if req.OtrosConceptos != nil {
		rec.OtrosConceptos = *req.OtrosConceptos
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, acc, id)
}

func (s *recaudacionService) Eliminar(ctx context.Context, acc Acceso, id int64) error {
	if _, err := s.cargar(ctx, acc, id, true); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return comoNoEncontrado(err, "Recaudacion no encontrada")
	}
	log.Info().Int64("recaudacion_id", id).Int64("usuario_id", acc.UsuarioID).Msg("recaudacion eliminada")
	return nil
}

// ActualizarDetalle applies the supplied columns. TasaFinal is always
// recomputed as TasaCalculada + TasaAjuste.
func (s *recaudacionService) ActualizarDetalle(ctx context.Context, acc Acceso, detalleID int64, req dto.ActualizarDetalleRequest) (*dto.DetalleResponse, error) {
	d, err := s.repo.FindDetalle(ctx, detalleID)
	if err != nil {
		return nil, comoNoEncontrado(err, "Detalle no encontrado")
	}
	if _, err := s.cargar(ctx, acc, d.RecaudacionID, true); err != nil {
		return nil, err
	}

	if req.RetiradaEfectivo != nil {
		d.RetiradaEfectivo = *req.RetiradaEfectivo
	}
	if req.Cajon != nil {
		d.Cajon = *req.Cajon
	}
	if req.PagoManual != nil {
		d.PagoManual = *req.PagoManual
	}
	if req.TasaAjuste != nil {
		d.TasaAjuste = *req.TasaAjuste
	}
	if req.DetalleTasa != nil {
		d.DetalleTasa = *req.DetalleTasa
	}
	d.TasaFinal = d.TasaCalculada.Add(d.TasaAjuste)

	if err := s.repo.UpdateDetalle(ctx, d); err != nil {
		return nil, err
	}
	resp := mapDetalle(d)
	return &resp, nil
}

func (s *recaudacionService) cargar(ctx context.Context, acc Acceso, id int64, editar bool) (*model.Recaudacion, error) {
	return recaudacionAccesible(ctx, s.repo, acc, id, editar)
}
