package dart

// =============================================================================
// DART OPEN API DATA TYPES
// =============================================================================

// Report type codes accepted by the financial statement endpoint.
const (
	ReportQ1     = "11013" // 1분기보고서
	ReportHalf   = "11012" // 반기보고서
	ReportQ3     = "11014" // 3분기보고서
	ReportAnnual = "11011" // 사업보고서
)

// ValidReportType reports whether code is one of the documented filing period codes.
func ValidReportType(code string) bool {
	switch code {
	case ReportQ1, ReportHalf, ReportQ3, ReportAnnual:
		return true
	}
	return false
}

// StatusOK is the registry's success code.
const StatusOK = "000"

// statusMessages is the documented status code table.
// Anything outside this table is surfaced as-is with the upstream message.
var statusMessages = map[string]string{
	"000": "정상",
	"010": "등록되지 않은 인증키",
	"011": "사용할 수 없는 인증키",
	"012": "접근할 수 없는 IP",
	"013": "조회된 데이터가 없음",
	"014": "파일이 존재하지 않음",
	"020": "요청 제한 초과",
	"100": "필드의 부적절한 값",
	"800": "시스템 점검 중",
	"900": "정의되지 않은 오류",
}

// RawLineItem is one account row from the single-company key accounts endpoint.
// Amounts arrive as formatted strings ("1,234,567") and are normalized by calc.Parse.
type RawLineItem struct {
	StatementKind string `json:"sj_div"`         // "BS" or "IS"
	StatementName string `json:"sj_nm"`          // 재무제표명
	AccountName   string `json:"account_nm"`     // 계정명
	CurrentAmount string `json:"thstrm_amount"`  // 당기금액
	PriorAmount   string `json:"frmtrm_amount"`  // 전기금액
	Currency      string `json:"currency"`       // ISO 4217
	FiscalYear    string `json:"bsns_year"`      // 사업연도
	StockCode     string `json:"stock_code"`     // 종목코드
	ReportCode    string `json:"reprt_code"`     // 보고서 코드
	Ordinal       string `json:"ord"`            // 계정과목 정렬순서
	CurrentName   string `json:"thstrm_nm"`      // 당기명 (e.g. "제 56 기")
	CurrentDate   string `json:"thstrm_dt"`      // 당기일자
	PriorName     string `json:"frmtrm_nm"`      // 전기명
	PriorDate     string `json:"frmtrm_dt"`      // 전기일자
}

// statementsResponse is the wire envelope of fnlttSinglAcnt.json.
type statementsResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	List    []RawLineItem `json:"list"`
}

// Disclosure is one filing row from the disclosure search endpoint.
type Disclosure struct {
	CorpCode   string `json:"corp_code"`
	CorpName   string `json:"corp_name"`
	StockCode  string `json:"stock_code"`
	CorpClass  string `json:"corp_cls"` // Y/K/N/E
	ReportName string `json:"report_nm"`
	ReceiptNo  string `json:"rcept_no"`
	Filer      string `json:"flr_nm"`
	ReceiptDt  string `json:"rcept_dt"` // YYYYMMDD
	Remark     string `json:"rm"`
}

// DisclosurePage is one page of disclosure search results.
type DisclosurePage struct {
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	PageNo     int          `json:"page_no"`
	PageCount  int          `json:"page_count"`
	TotalCount int          `json:"total_count"`
	TotalPage  int          `json:"total_page"`
	List       []Disclosure `json:"list"`
}

// CorpInfo is one company record from the bulk corp-code download,
// and the record shape of the corpCodes.json snapshot.
type CorpInfo struct {
	CorpCode   string `json:"corp_code"`
	CorpName   string `json:"corp_name"`
	StockCode  string `json:"stock_code"`
	ModifyDate string `json:"modify_date"`
}
