// Package parser extracts labeled fields and occurrence timestamps from
// free-form incident messages.
package parser

// Label describes one labeled line of an incident message.
type Label struct {
	Key    string
	Prefix string
	Multi  bool
}

var (
	LabelTag            = Label{Key: "tag", Prefix: "タグ", Multi: true}
	LabelOccurDate      = Label{Key: "occurDate", Prefix: "日時"}
	LabelPrefecture     = Label{Key: "prefecture", Prefix: "都道府県"}
	LabelMunicipality   = Label{Key: "municipality", Prefix: "市区町村"}
	LabelDistrict       = Label{Key: "district", Prefix: "丁目"}
	LabelAddressDetails = Label{Key: "addressDetails", Prefix: "番地以降"}
	LabelSummary        = Label{Key: "summary", Prefix: "概要"}
)

// Labels lists every label the extractor understands.
var Labels = []Label{
	LabelTag,
	LabelOccurDate,
	LabelPrefecture,
	LabelMunicipality,
	LabelDistrict,
	LabelAddressDetails,
	LabelSummary,
}
