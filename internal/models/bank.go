package models

// BankCode identifies a supported issuing bank.
type BankCode string

const (
	BankICICI   BankCode = "icici_bank"
	BankHDFC    BankCode = "hdfc_bank"
	BankSBI     BankCode = "sbi_bank"
	BankFederal BankCode = "federal_bank"
	BankKotak   BankCode = "kotak_bank"
	BankAxis    BankCode = "axis_bank"
	BankCanara  BankCode = "canara_bank"
)

// BankProfile is the static detection metadata for one supported bank.
// Keywords are matched case-insensitively against the filename and a
// sample of the document's header text. Secondary keywords are IFSC-style
// codes that show up in narration text even when the bank name does not.
type BankProfile struct {
	Name     string
	Code     BankCode
	Keywords []string
}

// Profiles lists the supported banks in detection priority order.
// More specific banks come first so that generic terms cannot shadow them.
var Profiles = []BankProfile{
	{Name: "Kotak", Code: BankKotak, Keywords: []string{"kotak", "kkbk"}},
	{Name: "HDFC", Code: BankHDFC, Keywords: []string{"hdfc"}},
	{Name: "ICICI", Code: BankICICI, Keywords: []string{"icici", "icic0"}},
	{Name: "Federal", Code: BankFederal, Keywords: []string{"federal", "fdrl"}},
	{Name: "Axis", Code: BankAxis, Keywords: []string{"axis", "utib"}},
	{Name: "SBI", Code: BankSBI, Keywords: []string{"sbi", "sbin", "state bank"}},
	{Name: "Canara", Code: BankCanara, Keywords: []string{"canara", "cnrb"}},
}
