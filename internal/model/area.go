package model

// Area organizational area (table areas)
type Area struct {
	AreaID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"area_id"`
	Nome   string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"nome"`
	BaseModel
}

// TableName sets the table name.
func (Area) TableName() string { return "areas" }

// Subarea subdivision of an area (table subareas)
type Subarea struct {
	SubareaID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subarea_id"`
	Nome      string `gorm:"type:varchar(100);not null"                     json:"nome"`
	AreaID    string `gorm:"type:uuid;not null"                             json:"area_id"`
	BaseModel

	Area *Area `gorm:"foreignKey:AreaID;references:AreaID" json:"area,omitempty"`
}

// TableName sets the table name.
func (Subarea) TableName() string { return "subareas" }

// The two areas whose coordinators evaluate, and are evaluated by,
// the whole organization.
const (
	AreaCoordenacaoGeral   = "Coordenação Geral"
	AreaOrganizacaoInterna = "Organização Interna"
)

// areaRank is the single canonical display order for areas. Every component
// that groups evaluation data by area sorts with AreaRank; areas outside
// the table sort last, by name.
var areaRank = map[string]int{
	AreaCoordenacaoGeral:   0,
	AreaOrganizacaoInterna: 1,
	"Projetos":             2,
	"Comercial":            3,
	"Marketing":            4,
}

// AreaRank returns the canonical position of an area name. Unknown areas
// return len(areaRank), so they sort after every known one.
func AreaRank(nome string) int {
	if r, ok := areaRank[nome]; ok {
		return r
	}
	return len(areaRank)
}

// AreaBefore reports whether area a sorts before area b in the canonical
// order, falling back to name order for unknown areas.
func AreaBefore(a, b string) bool {
	ra, rb := AreaRank(a), AreaRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// IsAreaPrivilegiada reports whether coordinators of this area take part in
// every member's evaluation set.
func IsAreaPrivilegiada(nome string) bool {
	return nome == AreaCoordenacaoGeral || nome == AreaOrganizacaoInterna
}
