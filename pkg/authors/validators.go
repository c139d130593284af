package authors

type ListAuthorsQuery struct {
	Limit      int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset     int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	FirstName  *string `query:"first_name" json:"first_name,omitempty" validate:"omitempty,max=200,printable"`
	MiddleName *string `query:"middle_name" json:"middle_name,omitempty" validate:"omitempty,max=200,printable"`
	LastName   *string `query:"last_name" json:"last_name,omitempty" validate:"omitempty,max=200,printable"`
}

type NameCharsQuery struct {
	Prefix string `query:"prefix" json:"prefix,omitempty" validate:"max=200,printable"`
}
