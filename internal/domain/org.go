package domain

type OrgType string

const (
	OrgTypeArena       OrgType = "arena"
	OrgTypeLivingSpace OrgType = "living_space"
	OrgTypeSchool      OrgType = "school"
	OrgTypeHospitality OrgType = "hospitality"
)

type Organization struct {
	ID        int32   `json:"id"`
	Name      string  `json:"name"`
	Type      OrgType `json:"type"`
	CreatedOn string  `json:"created_on"`
}

// BuildingNumber is a wing within an organisation's building. It owns Flats.
type BuildingNumber struct {
	ID    int32  `json:"id"`
	OrgID int32  `json:"org_id"`
	Label string `json:"label"`
}

type Flat struct {
	ID               int32  `json:"id"`
	BuildingNumberID int32  `json:"building_number_id"`
	FlatNumber       string `json:"flat_number"` // normalized label
}
