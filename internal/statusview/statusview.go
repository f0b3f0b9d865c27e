// Package statusview maps backend status strings to display labels.
package statusview

// Display は画面表示用のラベル・色・アイコン。
type Display struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

const (
	defaultColor = "default"
	defaultIcon  = "question-circle"
)

var orderTable = map[string]Display{
	"CHO_DUYET":      {Label: "Chờ duyệt", Color: "orange", Icon: "clock-circle"},
	"CHO_THANH_TOAN": {Label: "Chờ thanh toán", Color: "gold", Icon: "wallet"},
	"DA_DAT_COC":     {Label: "Đã đặt cọc", Color: "cyan", Icon: "dollar"},
	"DA_THANH_TOAN":  {Label: "Đã thanh toán", Color: "blue", Icon: "check-circle"},
	"DA_GIAO":        {Label: "Đã giao", Color: "geekblue", Icon: "car"},
	"DA_HOAN_TAT":    {Label: "Đã hoàn tất", Color: "green", Icon: "check-circle"},
	"BI_TU_CHOI":     {Label: "Bị từ chối", Color: "red", Icon: "close-circle"},
	"TRANH_CHAP":     {Label: "Tranh chấp", Color: "volcano", Icon: "exclamation-circle"},
	"DA_HUY":         {Label: "Đã hủy", Color: "default", Icon: "stop"},
}

var productTable = map[string]Display{
	"CHO_DUYET":              {Label: "Chờ duyệt", Color: "orange", Icon: "clock-circle"},
	"CHO_KIEM_DUYET":         {Label: "Chờ kiểm duyệt", Color: "gold", Icon: "audit"},
	"DA_DUYET":               {Label: "Đã duyệt", Color: "cyan", Icon: "check"},
	"DANG_BAN":               {Label: "Đang bán", Color: "green", Icon: "shop"},
	"DA_BAN":                 {Label: "Đã bán", Color: "blue", Icon: "check-circle"},
	"BI_TU_CHOI":             {Label: "Bị từ chối", Color: "red", Icon: "close-circle"},
	"KHONG_DAT_KIEM_DINH":    {Label: "Không đạt kiểm định", Color: "volcano", Icon: "warning"},
	"HET_HAN":                {Label: "Hết hạn", Color: "default", Icon: "field-time"},
	"REMOVED_FROM_WAREHOUSE": {Label: "Đã rút khỏi kho", Color: "purple", Icon: "export"},
}

var transactionTable = map[string]Display{
	"PENDING": {Label: "Đang xử lý", Color: "gold", Icon: "loading"},
	"SUCCESS": {Label: "Thành công", Color: "green", Icon: "check-circle"},
	"FAILED":  {Label: "Thất bại", Color: "red", Icon: "close-circle"},
}

var packageTable = map[string]Display{
	"CHO_THANH_TOAN": {Label: "Chờ thanh toán", Color: "gold", Icon: "wallet"},
	"ACTIVE":         {Label: "Đang hoạt động", Color: "green", Icon: "check-circle"},
	"EXPIRED":        {Label: "Hết hạn", Color: "default", Icon: "field-time"},
}

// Order は注文ステータスの表示。
func Order(status string) Display { return lookup(orderTable, status) }

// Product は商品ステータスの表示。
func Product(status string) Display { return lookup(productTable, status) }

func Transaction(status string) Display { return lookup(transactionTable, status) }

func Package(status string) Display { return lookup(packageTable, status) }

// 未知のステータスは生の文字列をそのままラベルにする
func lookup(table map[string]Display, status string) Display {
	if d, ok := table[status]; ok {
		return d
	}
	return Display{Label: status, Color: defaultColor, Icon: defaultIcon}
}
