package excel

import (
	"strings"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type fieldRule struct {
	field   domain.Field
	aliases []string
	// excludes are folded tokens that veto a contains-match.
	excludes []string
}

// fieldRules is ordered by contains-match priority: specific fields before
// generic ones so that "Fecha de inicio" never lands on a title column.
var fieldRules = []fieldRule{
	{
		field: domain.FieldUserID,
		aliases: []string{
			"user id", "userid", "id de usuario", "id usuario", "usuario id",
			"identificacion del usuario", "identificacion de usuario", "user login",
			"employee id", "id empleado", "id del empleado", "numero de empleado",
			"no empleado", "num empleado",
		},
		excludes: []string{"manager", "supervisor", "jefe", "approver", "aprobador", "gerente"},
	},
	{
		field: domain.FieldEmail,
		aliases: []string{
			"email", "e mail", "user email", "email address", "user email address",
			"correo", "correo electronico", "correo del usuario",
		},
		excludes: []string{"manager", "supervisor", "jefe", "gerente"},
	},
	{
		field:    domain.FieldFirstName,
		aliases:  []string{"first name", "user first name", "primer nombre", "nombre de pila", "nombres"},
		excludes: []string{"manager", "supervisor", "jefe"},
	},
	{
		field:    domain.FieldLastName,
		aliases:  []string{"last name", "user last name", "apellido", "apellidos", "primer apellido"},
		excludes: []string{"manager", "supervisor", "jefe"},
	},
	{
		field: domain.FieldFullName,
		aliases: []string{
			"user full name", "full name", "nombre completo", "nombre completo del usuario",
			"nombre del usuario", "nombre de usuario", "user name", "name", "nombre",
		},
		excludes: []string{
			"manager", "supervisor", "jefe", "gerente", "training", "capacitacion",
			"curso", "course", "modulo", "module", "first", "last", "apellido",
			"departamento", "department", "division", "unidad", "puesto", "position",
		},
	},
	{
		field: domain.FieldPosition,
		aliases: []string{
			"position", "user position", "puesto", "cargo", "job title",
			"posicion", "titulo del puesto", "nombre del puesto",
		},
		excludes: []string{"manager", "supervisor", "jefe"},
	},
	{
		field: domain.FieldDepartment,
		aliases: []string{
			"department", "user department", "user s department", "departamento",
			"departamento del usuario", "area",
		},
		excludes: []string{"manager", "supervisor", "jefe"},
	},
	{
		field: domain.FieldBusinessUnit,
		aliases: []string{
			"business unit", "unidad de negocio", "unidad de negocios", "division",
			"user s division", "user division", "division del usuario", "unidad negocio",
		},
		excludes: []string{"manager", "supervisor", "jefe"},
	},
	{
		field: domain.FieldStatus,
		aliases: []string{
			"transcript status", "user transcript status", "training status",
			"estado del expediente", "estado de la transcripcion", "estado del expediente academico",
			"estado de la capacitacion", "estatus", "status", "estado",
		},
		excludes: []string{"user", "usuario", "approval", "aprobacion", "employee", "empleado"},
	},
	{
		field: domain.FieldStartDate,
		aliases: []string{
			"start date", "training start date", "fecha de inicio", "fecha inicio",
			"registration date", "fecha de registro", "fecha de inscripcion",
		},
	},
	{
		field: domain.FieldCompletionDate,
		aliases: []string{
			"completion date", "completed date", "training record completed date",
			"fecha de finalizacion", "fecha de terminacion", "fecha de conclusion",
			"fecha de completado", "fecha fin",
		},
	},
	{
		field: domain.FieldDueDate,
		aliases: []string{
			"due date", "training due date", "assignment due date", "fecha de vencimiento",
			"fecha limite", "fecha de entrega", "vencimiento",
		},
	},
	{
		field: domain.FieldPercentage,
		aliases: []string{
			"percent complete", "completion percentage", "progress", "porcentaje",
			"porcentaje de avance", "porcentaje completado", "avance", "progreso",
		},
	},
	{
		field: domain.FieldScore,
		aliases: []string{
			"score", "training record score", "calificacion", "puntaje", "puntuacion", "nota",
		},
	},
	{
		field:   domain.FieldAttempt,
		aliases: []string{"attempt", "attempts", "intento", "intentos", "numero de intento"},
	},
	{
		field: domain.FieldTrainingTitle,
		aliases: []string{
			"training title", "titulo de la capacitacion", "titulo de capacitacion",
			"titulo del curso", "course title", "learning object title", "titulo de la formacion",
			"modulo", "module", "curso", "course", "capacitacion", "titulo",
		},
		excludes: []string{"type", "tipo", "id", "version"},
	},
}

// dateFields hold Excel serials when read raw.
var dateFields = map[domain.Field]bool{
	domain.FieldStartDate:      true,
	domain.FieldCompletionDate: true,
	domain.FieldDueDate:        true,
}

// ColumnMap records the 0-based column index of each detected field.
type ColumnMap map[domain.Field]int

func (m ColumnMap) Has(field domain.Field) bool {
	_, ok := m[field]
	return ok
}

// DetectColumns maps header labels onto fields: exact alias matches first,
// then token-wise containment for the columns still unassigned.
func DetectColumns(headers []string) ColumnMap {
	columns := ColumnMap{}
	folded := make([]string, len(headers))
	taken := make([]bool, len(headers))
	for i, header := range headers {
		folded[i] = domain.Fold(header)
	}

	for _, rule := range fieldRules {
		for i, header := range folded {
			if taken[i] || header == "" {
				continue
			}
			if containsString(rule.aliases, header) {
				columns[rule.field] = i
				taken[i] = true
				break
			}
		}
	}

	for _, rule := range fieldRules {
		if columns.Has(rule.field) {
			continue
		}
		for i, header := range folded {
			if taken[i] || header == "" {
				continue
			}
			if hasAnyToken(header, rule.excludes) {
				continue
			}
			if containsAliasTokens(header, rule.aliases) {
				columns[rule.field] = i
				taken[i] = true
				break
			}
		}
	}

	return columns
}

var requiredFields = map[domain.ImportKind][]domain.Field{
	domain.KindTranscript:  {domain.FieldUserID, domain.FieldTrainingTitle, domain.FieldStatus},
	domain.KindAssignments: {domain.FieldUserID, domain.FieldTrainingTitle},
	domain.KindOrgPlanning: {domain.FieldUserID},
}

// DetectKind infers the export type from the detected columns.
func DetectKind(columns ColumnMap) domain.ImportKind {
	switch {
	case columns.Has(domain.FieldTrainingTitle) && columns.Has(domain.FieldStatus):
		return domain.KindTranscript
	case columns.Has(domain.FieldTrainingTitle):
		return domain.KindAssignments
	default:
		return domain.KindOrgPlanning
	}
}

// MissingFields lists the required fields of kind absent from columns.
func MissingFields(kind domain.ImportKind, columns ColumnMap) []domain.Field {
	var missing []domain.Field
	for _, field := range requiredFields[kind] {
		if !columns.Has(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func hasAnyToken(header string, tokens []string) bool {
	for _, token := range strings.Fields(header) {
		if containsString(tokens, token) {
			return true
		}
	}
	return false
}

func containsAliasTokens(header string, aliases []string) bool {
	padded := " " + header + " "
	for _, alias := range aliases {
		if strings.Contains(padded, " "+alias+" ") {
			return true
		}
	}
	return false
}
