package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/rs/zerolog/log"
)

// ImportacionService analyses collection spreadsheets, imports them with a
// confirmed name → seat map and exports records back to xlsx.
type ImportacionService interface {
	AnalizarFichero(ctx context.Context, acc Acceso, recaudacionID int64, filename string, contenido []byte) (*dto.AnalisisExcelResponse, error)
	AnalizarAdjunto(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) (*dto.AnalisisExcelResponse, error)
	ImportarFichero(ctx context.Context, acc Acceso, recaudacionID int64, filename string, contenido []byte, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error)
	ImportarAdjunto(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error)
	// Exportar returns the download name and the xlsx bytes of a record.
	Exportar(ctx context.Context, acc Acceso, recaudacionID int64) (string, []byte, error)
}

type importacionService struct {
	recaudaciones repository.RecaudacionRepository
	ficheros      repository.FicheroRepository
	catalogo      repository.CatalogoRepository
}

func NewImportacionService(recaudaciones repository.RecaudacionRepository, ficheros repository.FicheroRepository, catalogo repository.CatalogoRepository) ImportacionService {
	return &importacionService{recaudaciones: recaudaciones, ficheros: ficheros, catalogo: catalogo}
}

func (s *importacionService) AnalizarFichero(ctx context.Context, acc Acceso, recaudacionID int64, filename string, contenido []byte) (*dto.AnalisisExcelResponse, error) {
	rec, err := recaudacionAccesible(ctx, s.recaudaciones, acc, recaudacionID, true)
	if err != nil {
		return nil, err
	}
	return s.analizar(ctx, rec, filename, contenido)
}

func (s *importacionService) AnalizarAdjunto(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64) (*dto.AnalisisExcelResponse, error) {
	rec, err := recaudacionAccesible(ctx, s.recaudaciones, acc, recaudacionID, true)
	if err != nil {
		return nil, err
	}
	f, err := s.ficheros.Find(ctx, recaudacionID, ficheroID)
	if err != nil {
		return nil, comoNoEncontrado(err, "Fichero no encontrado")
	}
	return s.analizar(ctx, rec, f.Filename, f.Contenido)
}

func (s *importacionService) analizar(ctx context.Context, rec *model.Recaudacion, filename string, contenido []byte) (*dto.AnalisisExcelResponse, error) {
	hoja, err := leerHojaRecaudacion(filename, contenido)
	if err != nil {
		return nil, err
	}
	asientos, err := s.asientos(ctx, rec.SalonID)
	if err != nil {
		return nil, err
	}
	aprendidos, err := s.catalogo.ListExcelMap(ctx, rec.SalonID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalisisExcelResponse{
		Mappings: proponer(hoja.Filas, asientos, aprendidos),
		Puestos:  asientos.disponibles,
	}
	log.Info().
		Int64("recaudacion_id", rec.ID).
		Str("filename", filename).
		Int("nombres", len(resp.Mappings)).
		Msg("hoja analizada")
	return resp, nil
}

// asientosSalon indexes the active seats of a venue.
type asientosSalon struct {
	disponibles []dto.PuestoDisponible
	porID       map[int64]dto.PuestoDisponible
	buscador    *infra.Buscador
}

func (s *importacionService) asientos(ctx context.Context, salonID int64) (*asientosSalon, error) {
	maquinas, err := s.catalogo.ListMaquinasActivas(ctx, salonID)
	if err != nil {
		return nil, err
	}
	a := &asientosSalon{
		disponibles: []dto.PuestoDisponible{},
		porID:       map[int64]dto.PuestoDisponible{},
	}
	claves := map[string]int64{}
	for _, m := range maquinas {
		for _, p := range m.Puestos {
			d := dto.PuestoDisponible{ID: p.ID, MaquinaID: m.ID, Nombre: m.Nombre, NumeroPuesto: p.NumeroPuesto}
			a.disponibles = append(a.disponibles, d)
			a.porID[p.ID] = d

			n := strconv.Itoa(p.NumeroPuesto)
			claves[m.Nombre+" "+n] = p.ID
			claves[m.Nombre+" PUESTO "+n] = p.ID
			if p.Descripcion != "" {
				claves[p.Descripcion] = p.ID
			}
			if len(m.Puestos) == 1 {
				claves[m.Nombre] = p.ID
			}
		}
	}
	a.buscador = infra.NuevoBuscador(claves)
	return a, nil
}

// proponer builds one proposal per sheet name: the learned resolution first,
// then an exact normalised match, then the closest name. A seat is proposed
// at most once.
func proponer(filas []filaHoja, a *asientosSalon, aprendidos []model.MaquinaExcelMap) []dto.MapeoExcel {
	memoria := make(map[string]model.MaquinaExcelMap, len(aprendidos))
	for _, m := range aprendidos {
		memoria[m.ExcelName] = m
	}
	usados := map[int64]bool{}
	libre := func(id int64) bool {
		_, existe := a.porID[id]
		return existe && !usados[id]
	}

	out := make([]dto.MapeoExcel, 0, len(filas))
	for _, f := range filas {
		m := dto.MapeoExcel{ExcelName: f.Nombre}
		if mem, ok := memoria[infra.Normalizar(f.Nombre)]; ok {
			if mem.IsIgnored {
				m.IsIgnored = true
				out = append(out, m)
				continue
			}
			if mem.PuestoID != nil && libre(*mem.PuestoID) {
				m.PuestoID = ptr(*mem.PuestoID)
			}
		}
		if m.PuestoID == nil {
			if id, ok := a.buscador.Exacto(f.Nombre); ok && libre(id) {
				m.PuestoID = ptr(id)
			} else if id, ok := a.buscador.Parecido(f.Nombre); ok && libre(id) {
				m.PuestoID = ptr(id)
			}
		}
		if m.PuestoID != nil {
			usados[*m.PuestoID] = true
		}
		out = append(out, m)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func (s *importacionService) ImportarFichero(ctx context.Context, acc Acceso, recaudacionID int64, filename string, contenido []byte, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error) {
	rec, err := recaudacionAccesible(ctx, s.recaudaciones, acc, recaudacionID, true)
	if err != nil {
		return nil, err
	}
	return s.importar(ctx, rec, filename, contenido, req)
}

func (s *importacionService) ImportarAdjunto(ctx context.Context, acc Acceso, recaudacionID, ficheroID int64, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error) {
	rec, err := recaudacionAccesible(ctx, s.recaudaciones, acc, recaudacionID, true)
	if err != nil {
		return nil, err
	}
	f, err := s.ficheros.Find(ctx, recaudacionID, ficheroID)
	if err != nil {
		return nil, comoNoEncontrado(err, "Fichero no encontrado")
	}
	return s.importar(ctx, rec, f.Filename, f.Contenido, req)
}

// importar writes the sheet amounts into the rows of the mapped seats,
// creating rows that do not exist yet, and remembers every resolution for
// the next import of the venue.
func (s *importacionService) importar(ctx context.Context, rec *model.Recaudacion, filename string, contenido []byte, req dto.ImportarExcelRequest) (*dto.ImportarExcelResponse, error) {
	hoja, err := leerHojaRecaudacion(filename, contenido)
	if err != nil {
		return nil, err
	}
	asientos, err := s.asientos(ctx, rec.SalonID)
	if err != nil {
		return nil, err
	}

	duenos := make(map[int64]string, len(req.Mappings))
	for nombre, puestoID := range req.Mappings {
		if _, ok := asientos.porID[puestoID]; !ok {
			return nil, invalido("El puesto %d no pertenece al salon", puestoID)
		}
		if otro, dup := duenos[puestoID]; dup {
			return nil, invalido("El puesto %d esta asignado a %q y a %q", puestoID, otro, nombre)
		}
		duenos[puestoID] = nombre
	}

	existentes := make(map[string]model.RecaudacionMaquina, len(rec.Detalles))
	for _, d := range rec.Detalles {
		existentes[claveFila(d.MaquinaID, d.PuestoID)] = soloColumnas(d)
	}

	var detalles []model.RecaudacionMaquina
	creados, actualizados := 0, 0
	for _, f := range hoja.Filas {
		puestoID, ok := req.Mappings[f.Nombre]
		if !ok {
			continue
		}
		p := asientos.porID[puestoID]
		d, existe := existentes[claveFila(p.MaquinaID, &puestoID)]
		if !existe {
			d = model.RecaudacionMaquina{MaquinaID: p.MaquinaID, PuestoID: ptr(puestoID)}
			creados++
		} else {
			actualizados++
		}
		d.RetiradaEfectivo = f.Retirada
		d.Cajon = f.Cajon
		d.PagoManual = f.PagoManual
		if hoja.ConTasa {
			d.TasaCalculada = f.Tasa
		}
		d.TasaFinal = d.TasaCalculada.Add(d.TasaAjuste)
		detalles = append(detalles, d)
	}

	mapas := make([]model.MaquinaExcelMap, 0, len(req.Mappings)+len(req.Ignored))
	for nombre, puestoID := range req.Mappings {
		mapas = append(mapas, model.MaquinaExcelMap{
			SalonID:   rec.SalonID,
			ExcelName: infra.Normalizar(nombre),
			PuestoID:  ptr(puestoID),
		})
	}
	for _, nombre := range req.Ignored {
		if _, mapeado := req.Mappings[nombre]; mapeado {
			continue
		}
		mapas = append(mapas, model.MaquinaExcelMap{
			SalonID:   rec.SalonID,
			ExcelName: infra.Normalizar(nombre),
			IsIgnored: true,
		})
	}

	if err := s.recaudaciones.GuardarImportacion(ctx, rec.ID, filename, detalles, mapas); err != nil {
		return nil, fmt.Errorf("importar %s: %w", filename, err)
	}
	log.Info().
		Int64("recaudacion_id", rec.ID).
		Str("filename", filename).
		Int("actualizados", actualizados).
		Int("creados", creados).
		Int("ignorados", len(req.Ignored)).
		Msg("hoja importada")
	return &dto.ImportarExcelResponse{
		Status:       "ok",
		Filename:     filename,
		Actualizados: actualizados,
		Creados:      creados,
	}, nil
}

func claveFila(maquinaID int64, puestoID *int64) string {
	if puestoID == nil {
		return strconv.FormatInt(maquinaID, 10) + ":-"
	}
	return strconv.FormatInt(maquinaID, 10) + ":" + strconv.FormatInt(*puestoID, 10)
}

func soloColumnas(d model.RecaudacionMaquina) model.RecaudacionMaquina {
	d.Maquina, d.Puesto = nil, nil
	return d
}
