package service

import (
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
)

func MapUsuario(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:               u.ID,
		Username:         u.Username,
		Nombre:           u.Nombre,
		Email:            u.Email,
		Activo:           u.Activo,
		Roles:            u.ListaRoles(),
		SalonesAsignados: make([]dto.SalonAsignado, 0, len(u.SalonesAsignados)),
	}
	for _, s := range u.SalonesAsignados {
		resp.SalonesAsignados = append(resp.SalonesAsignados, dto.SalonAsignado{
			SalonID:             s.SalonID,
			Salon:               mapSalon(s.Salon),
			PuedeVer:            s.PuedeVer,
			PuedeEditar:         s.PuedeEditar,
			VerDashboard:        s.VerDashboard,
			VerRecaudaciones:    s.VerRecaudaciones,
			EditarRecaudaciones: s.EditarRecaudaciones,
			VerHistorico:        s.VerHistorico,
		})
	}
	return resp
}

func mapSalon(s *model.Salon) *dto.SalonResumen {
	if s == nil {
		return nil
	}
	return &dto.SalonResumen{ID: s.ID, Nombre: s.Nombre}
}

func mapRecaudacion(r *model.Recaudacion) dto.RecaudacionResponse {
	resp := dto.RecaudacionResponse{
		ID:                r.ID,
		SalonID:           r.SalonID,
		FechaInicio:       dto.NewFecha(r.FechaInicio),
		FechaFin:          dto.NewFecha(r.FechaFin),
		FechaCierre:       dto.NewFecha(r.FechaCierre),
		Etiqueta:          r.Etiqueta,
		Origen:            r.Origen,
		ReferenciaFichero: r.ReferenciaFichero,
		Notas:             r.Notas,
		TotalTasas:        r.TotalTasas,
		Depositos:         r.Depositos,
		OtrosConceptos:    r.OtrosConceptos,
		Detalles:          make([]dto.DetalleResponse, 0, len(r.Detalles)),
		Ficheros:          make([]dto.FicheroResponse, 0, len(r.Ficheros)),
		Salon:             mapSalon(r.Salon),
	}
	for i := range r.Detalles {
		resp.Detalles = append(resp.Detalles, mapDetalle(&r.Detalles[i]))
	}
	for i := range r.Ficheros {
		resp.Ficheros = append(resp.Ficheros, mapFichero(&r.Ficheros[i]))
	}
	return resp
}

func mapResumen(r *model.Recaudacion) dto.RecaudacionSummary {
	return dto.RecaudacionSummary{
		ID:             r.ID,
		SalonID:        r.SalonID,
		FechaInicio:    dto.NewFecha(r.FechaInicio),
		FechaFin:       dto.NewFecha(r.FechaFin),
		FechaCierre:    dto.NewFecha(r.FechaCierre),
		Etiqueta:       r.Etiqueta,
		Origen:         r.Origen,
		TotalTasas:     r.TotalTasas,
		Depositos:      r.Depositos,
		OtrosConceptos: r.OtrosConceptos,
		TotalNeto:      r.TotalNeto(),
		Salon:          mapSalon(r.Salon),
	}
}

func mapDetalle(d *model.RecaudacionMaquina) dto.DetalleResponse {
	resp := dto.DetalleResponse{
		ID:               d.ID,
		RecaudacionID:    d.RecaudacionID,
		MaquinaID:        d.MaquinaID,
		PuestoID:         d.PuestoID,
		RetiradaEfectivo: d.RetiradaEfectivo,
		Cajon:            d.Cajon,
		PagoManual:       d.PagoManual,
		TasaCalculada:    d.TasaCalculada,
		TasaAjuste:       d.TasaAjuste,
		TasaFinal:        d.TasaFinal,
		DetalleTasa:      d.DetalleTasa,
	}
	if m := d.Maquina; m != nil {
		resp.Maquina = &dto.MaquinaResumen{ID: m.ID, Nombre: m.Nombre, NumeroSerie: m.NumeroSerie}
		if t := m.TipoMaquina; t != nil {
			resp.Maquina.TipoMaquina = &dto.TipoMaquinaResumen{ID: t.ID, Nombre: t.Nombre, NombreCorto: t.NombreCorto}
		}
	}
	if p := d.Puesto; p != nil {
		resp.Puesto = &dto.PuestoResumen{ID: p.ID, NumeroPuesto: p.NumeroPuesto, Descripcion: p.Descripcion}
	}
	return resp
}

func mapFichero(f *model.RecaudacionFichero) dto.FicheroResponse {
	return dto.FicheroResponse{
		ID:            f.ID,
		RecaudacionID: f.RecaudacionID,
		Filename:      f.Filename,
		ContentType:   f.ContentType,
		Size:          f.Size,
		CreatedAt:     f.CreatedAt,
	}
}

func mapSalonCompleto(s *model.Salon) dto.SalonResponse {
	return dto.SalonResponse{
		ID:            s.ID,
		Nombre:        s.Nombre,
		Direccion:     s.Direccion,
		Activo:        s.Activo,
		CreadoEn:      s.CreatedAt,
		ActualizadoEn: s.UpdatedAt,
	}
}

func mapTipoMaquina(t *model.TipoMaquina) dto.TipoMaquinaResponse {
	return dto.TipoMaquinaResponse{
		ID:              t.ID,
		Nombre:          t.Nombre,
		NombreCorto:     t.NombreCorto,
		TasaSemanalBase: t.TasaSemanalBase,
		TasaPorPuesto:   t.TasaPorPuesto,
		Activo:          t.Activo,
	}
}

func mapMaquina(m *model.Maquina) dto.MaquinaResponse {
	resp := dto.MaquinaResponse{
		ID:                  m.ID,
		SalonID:             m.SalonID,
		TipoMaquinaID:       m.TipoMaquinaID,
		Nombre:              m.Nombre,
		NumeroSerie:         m.NumeroSerie,
		TasaSemanalOverride: m.TasaSemanalOverride,
		Activo:              m.Activo,
		Puestos:             make([]dto.PuestoResumen, 0, len(m.Puestos)),
	}
	if t := m.TipoMaquina; t != nil {
		resp.TipoMaquina = &dto.TipoMaquinaResumen{ID: t.ID, Nombre: t.Nombre, NombreCorto: t.NombreCorto}
	}
	for _, p := range m.Puestos {
		resp.Puestos = append(resp.Puestos, dto.PuestoResumen{ID: p.ID, NumeroPuesto: p.NumeroPuesto, Descripcion: p.Descripcion})
	}
	return resp
}
