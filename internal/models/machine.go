package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the fixed machine category enumeration used by the backend.
type Category int

const (
	CategoryJCB       Category = 1
	CategoryExcavator Category = 2
	CategoryDozer     Category = 3
)

func (c Category) String() string {
	switch c {
	case CategoryJCB:
		return "JCB"
	case CategoryExcavator:
		return "Excavator"
	case CategoryDozer:
		return "Dozer"
	}
	return "Unknown"
}

// ParseCategory accepts a category id or a case-insensitive name.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		c := Category(n)
		if c == CategoryJCB || c == CategoryExcavator || c == CategoryDozer {
			return c, nil
		}
		return 0, fmt.Errorf("unknown category id %d", n)
	}
	switch s {
	case "jcb", "backhoe":
		return CategoryJCB, nil
	case "excavator":
		return CategoryExcavator, nil
	case "dozer", "bulldozer":
		return CategoryDozer, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

type Machine struct {
	MachineID     FlexInt   `json:"machine_id"`
	CategoryID    *FlexInt  `json:"category_id,omitempty"`
	ModelName     string    `json:"model_name,omitempty"`
	MachineModel  string    `json:"machine_model,omitempty"`
	PricePerHour  FlexFloat `json:"price_per_hour"`
	Specs         string    `json:"specs,omitempty"`
	ModelYear     *FlexInt  `json:"model_year,omitempty"`
	Image         string    `json:"image,omitempty"`
	Availability  string    `json:"availability,omitempty"`
	Address       string    `json:"address,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	EquipmentType string    `json:"equipment_type,omitempty"`
	OperatorID    *FlexInt  `json:"operator_id,omitempty"`
	Model         string    `json:"model,omitempty"`
	Type          string    `json:"type,omitempty"`
}

// DisplayName picks the first populated model field.
func (m Machine) DisplayName() string {
	for _, s := range []string{m.ModelName, m.MachineModel, m.Model} {
		if s != "" {
			return s
		}
	}
	return fmt.Sprintf("Machine #%d", m.MachineID)
}

// DisplayType picks the first populated type field.
func (m Machine) DisplayType() string {
	if m.Type != "" {
		return m.Type
	}
	if m.EquipmentType != "" {
		return m.EquipmentType
	}
	if m.CategoryID != nil {
		return Category(*m.CategoryID).String()
	}
	return ""
}

// MachinesByCategory keeps machines whose category id equals c.
func MachinesByCategory(machines []Machine, c Category) []Machine {
	var out []Machine
	for _, m := range machines {
		if m.CategoryID != nil && Category(*m.CategoryID) == c {
			out = append(out, m)
		}
	}
	return out
}
