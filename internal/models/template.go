// ABOUTME: Template and TemplateExercise models for predefined workout plans.
// ABOUTME: Templates are reference data; they are never persisted.
package models

// Template is a reusable workout plan.
type Template struct {
	Name      string             `json:"name" yaml:"name"`
	Category  string             `json:"category" yaml:"category"`
	Exercises []TemplateExercise `json:"exercises" yaml:"exercises"`
}

// TemplateExercise is one step of a template.
type TemplateExercise struct {
	Name     string `json:"name" yaml:"name"`
	Sets     string `json:"sets" yaml:"sets"`
	Reps     string `json:"reps" yaml:"reps"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
	IsWarmup bool   `json:"is_warmup,omitempty" yaml:"warmup,omitempty"`
}

// Warmups returns the warm-up steps in order.
func (t Template) Warmups() []TemplateExercise {
	var out []TemplateExercise
	for _, e := range t.Exercises {
		if e.IsWarmup {
			out = append(out, e)
		}
	}
	return out
}

// MainExercises returns the non-warm-up steps in order.
func (t Template) MainExercises() []TemplateExercise {
	var out []TemplateExercise
	for _, e := range t.Exercises {
		if !e.IsWarmup {
			out = append(out, e)
		}
	}
	return out
}
