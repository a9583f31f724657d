package domain

// Currency is a catalog entry. Name is the Chinese display name, NameEn the
// English one.
type Currency struct {
	Code    string `json:"code" yaml:"code"`
	Symbol  string `json:"symbol" yaml:"symbol"`
	Name    string `json:"name" yaml:"name"`
	NameEn  string `json:"nameEn" yaml:"name_en"`
	Flag    string `json:"flag" yaml:"flag"`
	Popular bool   `json:"popular" yaml:"popular"`
}
