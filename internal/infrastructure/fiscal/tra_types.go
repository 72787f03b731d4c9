package fiscal

import "github.com/shopspring/decimal"

// traZReportLine is one receipt summarized in the submission payload
type traZReportLine struct {
	RCTNum     string          `json:"rctnum"`
	RCTVNum    string          `json:"rctvnum,omitempty"`
	IssuedAt   string          `json:"issued_at"`
	NetAmount  decimal.Decimal `json:"net_amount"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrossTotal decimal.Decimal `json:"gross_total"`
	PmtType    string          `json:"pmttype"`
	Customer   string          `json:"customer"`
}

// traZReportRequest is the daily report submission payload
type traZReportRequest struct {
	TIN       string           `json:"tin"`
	VFDSerial string           `json:"vfd_serial"`
	ZNumDate  string           `json:"znumdate"`
	DailyAmt  decimal.Decimal  `json:"dailytotalamount"`
	VATAmt    decimal.Decimal  `json:"vatamount"`
	RCTCount  int              `json:"receipt_count"`
	Lines     []traZReportLine `json:"lines"`
}

// TRA response status codes
const (
	traCodeSuccess = 0
)

// traSubmitData carries the acknowledgement payload of an accepted report
type traSubmitData struct {
	GlobalCounter int64          `json:"gc"`
	ZNum          string         `json:"znum,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// traSubmitResponse is the envelope every TRA endpoint responds with
type traSubmitResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *traSubmitData `json:"data,omitempty"`
}

// IsSuccess returns true when the authority accepted the submission
func (r *traSubmitResponse) IsSuccess() bool {
	return r.Code == traCodeSuccess
}
