// Package report renders lot listings as spreadsheets.
package report

import (
	"io"
	"time"

	"go-diamond-ledger/internal/model"

	"github.com/xuri/excelize/v2"
)

const lotSheet = "Lots"

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var lotHeadings = []string{
	"Unique ID", "Date", "Party", "Kapan", "PKT", "Shape", "Issue Wt", "Expected Wt",
	"Polish Wt", "Color", "Clarity", "Polish Date", "Rate", "Amount", "Status",
	"HPHT Wt", "HPHT Date", "Payment Status", "Remark",
}

// WriteLots writes one row per lot followed by a totals row. Dates are
// rendered as calendar days in loc.
func WriteLots(w io.Writer, lots []model.DiamondLot, totals model.LotTotals, loc *time.Location) error {
	f, err := BuildLots(lots, totals, loc)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// BuildLots returns the workbook WriteLots would write.
func BuildLots(lots []model.DiamondLot, totals model.LotTotals, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", lotSheet); err != nil {
		return nil, err
	}

	if err := setRow(f, 1, toAny(lotHeadings)); err != nil {
		return nil, err
	}
	for i, l := range lots {
		row := []any{
			l.UniqueID,
			day(&l.Date, loc),
			partyName(l.Party),
			l.KapanNumber,
			l.PKTNumber,
			shapeName(l.Shape),
			l.IssueWeight,
			l.ExpectedWeight,
			num(l.PolishWeight),
			colorName(l.Color),
			clarityName(l.Clarity),
			day(l.PolishDate, loc),
			num(l.Rate),
			num(l.Amount),
			statusName(l.Status),
			num(l.HPHTWeight),
			day(l.HPHTDate, loc),
			paymentStatusName(l.PaymentStatus),
			l.Remark,
		}
		if err := setRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	total := make([]any, len(lotHeadings))
	total[0] = "Total"
	total[1] = totals.TotalItems
	total[6] = totals.TotalIssueWeight
	total[7] = totals.TotalExpectedWeight
	total[8] = totals.TotalPolishWeight
	total[13] = totals.TotalAmount
	total[15] = totals.TotalHphtWeight
	if err := setRow(f, len(lots)+2, total); err != nil {
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(lotSheet, cell, &values)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func day(t *time.Time, loc *time.Location) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.In(loc).Format(model.DayLayout)
}

func num(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func partyName(p *model.Party) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func shapeName(s *model.Shape) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func colorName(c *model.Color) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func clarityName(c *model.Clarity) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func statusName(s *model.Status) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func paymentStatusName(p *model.PaymentStatus) string {
	if p == nil {
		return ""
	}
	return p.Name
}
