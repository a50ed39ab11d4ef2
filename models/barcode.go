package models

// BarcodeItem is a scan record used to recall previously catalogued items.
type BarcodeItem struct {
	ID        int64  `db:"id" json:"id"`
	Barcode   string `db:"barcode" json:"barcode"`
	Name      string `db:"name" json:"name"`
	Note      string `db:"note" json:"note,omitempty"`
	ScannedAt string `db:"scanned_at" json:"scanned_at"`
}
