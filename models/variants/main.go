package variants

type (
	// SampleOutput is one sample column's raw value for a single
	// variant call, paired with the sample name declared in the
	// file header. Order follows the header's sample columns.
	SampleOutput struct {
		Name  string `json:"name" bson:"name" mapstructure:"name"`
		Value string `json:"value" bson:"value" mapstructure:"value"`
	}

	// Variant is one parsed data line of a variant file, as stored in
	// a per-upload collection. Documents are write-once: a collection
	// is bulk loaded during its ingestion run and never mutated after.
	Variant struct {
		Chromosome   string         `json:"chromosome" bson:"chromosome" mapstructure:"chromosome"`
		Position     int            `json:"position" bson:"position" mapstructure:"position"`
		Id           string         `json:"id" bson:"id" mapstructure:"id"`
		Reference    string         `json:"reference" bson:"reference" mapstructure:"reference"`
		Alternate    string         `json:"alternate" bson:"alternate" mapstructure:"alternate"`
		Quality      float64        `json:"quality" bson:"quality" mapstructure:"quality"`
		FilterStatus string         `json:"filter_status" bson:"filter_status" mapstructure:"filter_status"`
		Info         string         `json:"info" bson:"info" mapstructure:"info"`
		Format       string         `json:"format" bson:"format" mapstructure:"format"`
		Outputs      []SampleOutput `json:"outputs" bson:"outputs" mapstructure:"outputs"`
	}
)
