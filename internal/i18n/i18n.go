package i18n

import "strings"

// Supported languages for the printable/exportable output.
// Indonesian is the default; Mandarin is the secondary language.
const (
	LangID = "id"
	LangZH = "zh"
)

// translations maps message codes to per-language labels. Labels come from the
// store's printed nota and surat jalan layouts.
var translations = map[string]map[string]string{
	LangID: {
		"store_name":     "Toko Yanto",
		"store_tagline":  "menjual: sayur - mayur, bakso-bakso & buah-buahan",
		"store_address":  "Pasar Mitra Raya Block B No 05, Batam Centre",
		"store_phone":    "Hp 082284228888",
		"nota":           "Nota",
		"delivery_note":  "Surat Jalan",
		"customer":       "Customer",
		"nota_number":    "Nomor Nota",
		"nota_date":      "Tanggal Nota",
		"due_date":       "Jatuh Tempo",
		"col_item":       "Nama Barang",
		"col_qty":        "Qty",
		"col_unit":       "Satuan",
		"col_price":      "Harga",
		"col_amount":     "Jumlah",
		"total":          "Total",
		"payment_status": "Status Pembayaran",
		"paid":           "Lunas",
		"unpaid":         "Belum Lunas",
		"status":         "Status",
		"draft":          "Draft",
		"published":      "Terbit",
		"made_by":        "Dibuat Oleh",
		"courier":        "Pengantar",
		"receiver":       "Penerima",
		"edited":         "Diedit",
		"required":       "Wajib diisi",
	},
	LangZH: {
		"store_name":     "燕涛商店",
		"store_tagline":  "销售：蔬菜、肉丸和水果",
		"store_address":  "巴淡岛中心Mitra Raya市场B座05号",
		"store_phone":    "电话：082284228888",
		"nota":           "单据",
		"delivery_note":  "送货单",
		"customer":       "客户",
		"nota_number":    "单据编号",
		"nota_date":      "单据日期",
		"due_date":       "到期日",
		"col_item":       "商品名称",
		"col_qty":        "数量",
		"col_unit":       "单位",
		"col_price":      "价格",
		"col_amount":     "金额",
		"total":          "总计",
		"payment_status": "支付状态",
		"paid":           "已付款",
		"unpaid":         "未付款",
		"status":         "状态",
		"draft":          "草稿",
		"published":      "已发布",
		"made_by":        "制作人",
		"courier":        "送货员",
		"receiver":       "收货人",
		"edited":         "已修改",
		"required":       "必填",
	},
}

// DetectLanguage picks a supported language from an Accept-Language header.
// Anything that is not Mandarin falls back to Indonesian.
func DetectLanguage(acceptLanguage string) string {
	al := strings.ToLower(strings.TrimSpace(acceptLanguage))
	if strings.HasPrefix(al, "zh") {
		return LangZH
	}
	return LangID
}

// Normalize returns lang if it is supported, the default language otherwise.
func Normalize(lang string) string {
	if lang == LangZH {
		return LangZH
	}
	return LangID
}

// T returns the label for code in the given language. Unknown languages fall
// back to Indonesian; unknown codes fall back to the code itself.
func T(lang, code string) string {
	m, ok := translations[lang]
	if !ok {
		m = translations[LangID]
	}
	if s, ok := m[code]; ok {
		return s
	}
	if s, ok := translations[LangID][code]; ok {
		return s
	}
	return code
}
