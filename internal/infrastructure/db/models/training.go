package models

import "time"

type BusinessUnit struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BusinessUnit) TableName() string {
	return "instituto_unidad_de_negocio"
}

type Department struct {
	ID             int64  `gorm:"primaryKey"`
	Name           string `gorm:"size:255;not null;uniqueIndex"`
	BusinessUnitID *int64 `gorm:"index"`
	BusinessUnit   *BusinessUnit
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Department) TableName() string {
	return "instituto_departamento"
}

type User struct {
	UserID         string `gorm:"column:user_id;size:64;primaryKey"`
	Name           string `gorm:"size:255;not null;default:''"`
	Email          string `gorm:"size:320;not null;default:'';index"`
	Position       string `gorm:"size:255;not null;default:''"`
	DepartmentID   *int64 `gorm:"index"`
	Department     *Department
	BusinessUnitID *int64 `gorm:"index"`
	BusinessUnit   *BusinessUnit
	Progress       []ModuleProgress `gorm:"foreignKey:UserID;references:UserID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string {
	return "instituto_usuario"
}

type Module struct {
	ID        int    `gorm:"column:id_modulo;primaryKey;autoIncrement:false;check:chk_modulo_range,id_modulo BETWEEN 1 AND 14"`
	Name      string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Module) TableName() string {
	return "instituto_modulo"
}

type ModuleProgress struct {
	ID          int64    `gorm:"primaryKey"`
	UserID      string   `gorm:"column:user_id;size:64;not null;uniqueIndex:ux_progreso_usuario_modulo,priority:1"`
	ModuleID    int      `gorm:"column:id_modulo;not null;uniqueIndex:ux_progreso_usuario_modulo,priority:2;index"`
	Module      *Module  `gorm:"foreignKey:ModuleID;references:ID"`
	Status      string   `gorm:"size:32;not null;index;check:chk_progreso_estatus,status IN ('No iniciado','En proceso','Registrado','Terminado','Fallido')"`
	Percentage  *float64 `gorm:"type:numeric(5,2)"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	DueAt       *time.Time
	Evaluations []EvaluationResult `gorm:"foreignKey:ProgressID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ModuleProgress) TableName() string {
	return "instituto_progreso_modulo"
}

type EvaluationResult struct {
	ID         int64   `gorm:"primaryKey"`
	ProgressID int64   `gorm:"column:inscripcion_id;not null;uniqueIndex:ux_resultado_intento,priority:1"`
	Score      float64 `gorm:"type:numeric(6,2);not null"`
	Passed     bool    `gorm:"not null"`
	Attempt    int     `gorm:"not null;default:1;uniqueIndex:ux_resultado_intento,priority:2"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (EvaluationResult) TableName() string {
	return "instituto_resultado_evaluacion"
}
