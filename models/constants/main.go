package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout VitiGen and it's
	associated services.
*/
type SortDirection string

// Fixed leading columns of a VCF-style header row; any trailing
// header token beyond these is treated as a sample name.
var VcfHeaders = []string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "info", "format"}
