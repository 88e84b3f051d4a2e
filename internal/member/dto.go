package member

// UpdateProfileDTO patches the mutable lifestyle fields. Only fields
// present in the payload change; a JSON null clears nothing because the
// pointer simply stays nil.
type UpdateProfileDTO struct {
	DisplayName       *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	DateOfBirth       *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender            *string `json:"gender,omitempty" validate:"omitempty,oneof=male female nonbinary other"`
	City              *string `json:"city,omitempty" validate:"omitempty,max=120"`
	Religion          *string `json:"religion,omitempty" validate:"omitempty,max=64"`
	FaithImportance   *int    `json:"faith_importance,omitempty" validate:"omitempty,gte=1,lte=5"`
	PracticeFrequency *int    `json:"practice_frequency,omitempty" validate:"omitempty,gte=1,lte=5"`
	WantsChildren     *string `json:"wants_children,omitempty" validate:"omitempty,oneof=yes no open unsure"`
	EducationLevel    *int    `json:"education_level,omitempty" validate:"omitempty,gte=1,lte=5"`
}

// UpdateSubscriptionDTO switches a member between tiers
type UpdateSubscriptionDTO struct {
	Tier string `json:"tier" validate:"required,oneof=free premium"`
}
