package genres

type ListGenresQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Prefix *string `query:"prefix" json:"prefix,omitempty" validate:"omitempty,max=100,printable"`
}
