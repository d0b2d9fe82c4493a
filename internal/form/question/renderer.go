package question

// RendererKind is the abstract input affordance selected for a question
// type, independent of visual styling.
type RendererKind string

const (
	RendererTextInput     RendererKind = "text_input"
	RendererTextArea      RendererKind = "text_area"
	RendererRadioGroup    RendererKind = "radio_group"
	RendererCheckboxGroup RendererKind = "checkbox_group"
	RendererStarRating    RendererKind = "star_rating"
	RendererRangeSlider   RendererKind = "range_slider"
	RendererDateInput     RendererKind = "date_input"
	RendererTimeInput     RendererKind = "time_input"

	// RendererUnsupported must be rendered as a visible "unsupported
	// question type" notice, never silently dropped, so respondents cannot
	// unknowingly skip a question the UI cannot draw.
	RendererUnsupported RendererKind = "unsupported"
)

// SelectRenderer maps a question type to its input affordance. Unknown or
// future types map to RendererUnsupported.
func SelectRenderer(t QuestionType) RendererKind {
	switch t {
	case QuestionTypeShortText, QuestionTypeEmail, QuestionTypePhone, QuestionTypeNumber:
		return RendererTextInput
	case QuestionTypeLongText:
		return RendererTextArea
	case QuestionTypeSingleChoice:
		return RendererRadioGroup
	case QuestionTypeMultipleChoice:
		return RendererCheckboxGroup
	case QuestionTypeRating:
		return RendererStarRating
	case QuestionTypeScale:
		return RendererRangeSlider
	case QuestionTypeDate:
		return RendererDateInput
	case QuestionTypeTime:
		return RendererTimeInput
	case QuestionTypeFileUpload:
		return RendererUnsupported
	default:
		return RendererUnsupported
	}
}

// Renderer carries the renderer kind together with the props the input
// needs: choices for choice groups, bounds for sliders, the ceiling for
// star ratings.
type Renderer struct {
	Kind      RendererKind `json:"kind"`
	Choices   []string     `json:"choices,omitempty"`
	Scale     *ScaleBounds `json:"scale,omitempty"`
	MaxRating int          `json:"maxRating,omitempty"`
}

// RendererFor assembles the renderer decision for a question, pulling props
// through the defaulting option accessors.
func RendererFor(q Question) Renderer {
	r := Renderer{Kind: SelectRenderer(q.Type)}

	switch r.Kind {
	case RendererRadioGroup, RendererCheckboxGroup:
		r.Choices = q.Choices()
	case RendererRangeSlider:
		bounds := q.ScaleBounds()
		r.Scale = &bounds
	case RendererStarRating:
		r.MaxRating = q.MaxRating()
	}

	return r
}
