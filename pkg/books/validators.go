package books

type ListBooksQuery struct {
	Limit      int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset     int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	FirstName  *string `query:"first_name" json:"first_name,omitempty" mod:"trim" validate:"omitempty,max=200,printable"`
	MiddleName *string `query:"middle_name" json:"middle_name,omitempty" mod:"trim" validate:"omitempty,max=200,printable"`
	LastName   *string `query:"last_name" json:"last_name,omitempty" mod:"trim" validate:"omitempty,max=200,printable"`
	Title      *string `query:"title" json:"title,omitempty" validate:"omitempty,max=500,printable"`
	Genre      *string `query:"genre" json:"genre,omitempty" validate:"omitempty,max=100,printable"`
}

type TitleCharsQuery struct {
	Prefix string `query:"prefix" json:"prefix,omitempty" validate:"max=500,printable"`
}
