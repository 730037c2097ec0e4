package dto

// MapeoExcel is one distinct spreadsheet name with the server's proposal.
type MapeoExcel struct {
	ExcelName string `json:"excel_name"`
	PuestoID  *int64 `json:"puesto_id"`
	IsIgnored bool   `json:"is_ignored"`
}

// PuestoDisponible is a seat of the record's venue that a name can map to.
type PuestoDisponible struct {
	ID           int64  `json:"id"`
	MaquinaID    int64  `json:"maquina_id"`
	Nombre       string `json:"nombre"`
	NumeroPuesto int    `json:"numero_puesto"`
}

type AnalisisExcelResponse struct {
	Mappings []MapeoExcel       `json:"mappings"`
	Puestos  []PuestoDisponible `json:"puestos"`
}

// ImportarExcelRequest carries the confirmed name → seat map. Ignored names
// travel apart so they can be remembered for the next import.
type ImportarExcelRequest struct {
	Mappings map[string]int64 `json:"mappings" validate:"required"`
	Ignored  []string         `json:"ignored"`
}

type ImportarExcelResponse struct {
	Status       string `json:"status"`
	Filename     string `json:"filename"`
	Actualizados int    `json:"actualizados"`
	Creados      int    `json:"creados"`
}

type TicketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int    `json:"expires_in"`
}
