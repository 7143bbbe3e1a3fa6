package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// renderPDF is the paginated back-end. The comparative statement uses a wide
// page; the other documents are portrait letters and forms.
func renderPDF(view TenderDocumentView, docType DocumentType) ([]byte, error) {
	pageOrientation := orientation.Vertical
	if docType == DocComparative {
		pageOrientation = orientation.Horizontal
	}

	cfg := config.NewBuilder().
		WithOrientation(pageOrientation).
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	switch docType {
	case DocComparative:
		addComparativePDF(m, view)
	case DocScrutiny:
		addScrutinyPDF(m, view)
	case DocWorkOrder:
		addLetterPDF(m, view, workOrderContent(view))
	default:
		addLetterPDF(m, view, acceptanceContent(view))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate %s PDF: %w", docType, err)
	}
	return doc.GetBytes(), nil
}

func addComparativePDF(m core.Maroto, view TenderDocumentView) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New(view.Office.OfficeName, props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
		row.New(8).Add(
			col.New(12).Add(text.New("COMPARATIVE STATEMENT OF TENDERS", props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
		row.New(4),
	)

	info := props.Text{Size: 9, Align: align.Left}
	m.AddRows(
		row.New(6).Add(col.New(12).Add(text.New("Name of Work: "+view.WorkName, info))),
		row.New(6).Add(col.New(12).Add(text.New(fmt.Sprintf(
			"NIT No.: %s     Date: %s     ITEM-1", view.NITNumber, orDash(view.NITDate)), info))),
		row.New(4),
	)

	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("S.No", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Bidder Name", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Estimated Cost Rs.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Quoted Percentage", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Quoted Amount Rs.", headerText)).WithStyle(&headerCell),
		),
	)

	altBg := &props.Color{Red: 248, Green: 249, Blue: 250}
	for i, b := range view.Bidders {
		bodyText := props.Text{Size: 8, Align: align.Center}
		bodyTextLeft := props.Text{Size: 8, Align: align.Left}
		bodyTextRight := props.Text{Size: 8, Align: align.Right}
		if b.IsL1 {
			bodyText.Style = fontstyle.Bold
			bodyTextLeft.Style = fontstyle.Bold
			bodyTextRight.Style = fontstyle.Bold
		}

		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: altBg}
		}

		colSNo := col.New(1).Add(text.New(fmt.Sprintf("%d", b.SNo), bodyText))
		colName := col.New(5).Add(text.New(b.Name, bodyTextLeft))
		colEst := col.New(2).Add(text.New(b.EstimatedCost, bodyTextRight))
		colPct := col.New(2).Add(text.New(b.PercentLabel, bodyText))
		colAmt := col.New(2).Add(text.New(b.QuotedAmount, bodyTextRight))

		if cellStyle != nil {
			colSNo = colSNo.WithStyle(cellStyle)
			colName = colName.WithStyle(cellStyle)
			colEst = colEst.WithStyle(cellStyle)
			colPct = colPct.WithStyle(cellStyle)
			colAmt = colAmt.WithStyle(cellStyle)
		}

		m.AddRows(row.New(7).Add(colSNo, colName, colEst, colPct, colAmt))
	}

	// Approval block for the lowest bidder, framed to stand apart.
	boxCell := &props.Cell{
		BorderType:      border.Full,
		BorderColor:     &props.Color{Red: 30, Green: 64, Blue: 175},
		BorderThickness: 0.6,
		BackgroundColor: &props.Color{Red: 248, Green: 250, Blue: 252},
	}
	boxTitle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center}
	boxLine := props.Text{Size: 9, Align: align.Center}

	m.AddRows(
		row.New(6),
		row.New(8).Add(
			col.New(5),
			col.New(7).Add(text.New(view.LowestTag+" - Lowest Amount Quoted BY:", boxTitle)).WithStyle(boxCell),
		),
		row.New(7).Add(
			col.New(5),
			col.New(7).Add(text.New(view.LowestName, boxLine)).WithStyle(boxCell),
		),
		row.New(7).Add(
			col.New(5),
			col.New(7).Add(text.New(fmt.Sprintf("%s - Rs. %s", view.LowestLabel, view.LowestAmount), boxLine)).WithStyle(boxCell),
		),
	)

	addSignatureRow(m)
}

// addSignatureRow adds the AR/DA/TA/EE sign-off columns used on the
// comparative statement.
func addSignatureRow(m core.Maroto) {
	m.AddRows(row.New(14))

	lineStyle := props.Text{
		Size:  8,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	m.AddRows(
		row.New(6).Add(
			col.New(3).Add(text.New("____________________", lineStyle)),
			col.New(3).Add(text.New("____________________", lineStyle)),
			col.New(3).Add(text.New("____________________", lineStyle)),
			col.New(3).Add(text.New("____________________", lineStyle)),
		),
		row.New(7).Add(
			col.New(3).Add(text.New("Auditor", labelStyle)),
			col.New(3).Add(text.New("Divisional Accountant", labelStyle)),
			col.New(3).Add(text.New("Technical Assistant", labelStyle)),
			col.New(3).Add(text.New("Executive Engineer", labelStyle)),
		),
	)
}

func addScrutinyPDF(m core.Maroto, view TenderDocumentView) {
	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(text.New("Scrutiny Sheet of Tender", props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
		row.New(4),
	)

	numText := props.Text{Size: 9, Align: align.Center}
	labelText := props.Text{Size: 9, Align: align.Left}
	valueText := props.Text{Size: 9, Align: align.Left}
	rowCell := &props.Cell{
		BorderType:      border.Full,
		BorderColor:     &props.Color{Red: 0, Green: 0, Blue: 0},
		BorderThickness: 0.2,
	}

	for _, r := range scrutinyRows(view) {
		m.AddRows(
			row.New(8).Add(
				col.New(1).Add(text.New(r.Num, numText)).WithStyle(rowCell),
				col.New(6).Add(text.New(r.Label, labelText)).WithStyle(rowCell),
				col.New(5).Add(text.New(r.Value, valueText)).WithStyle(rowCell),
			),
		)
	}

	m.AddRows(
		row.New(16),
		row.New(6).Add(
			col.New(12).Add(text.New("AUDITOR", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
		),
	)
}

func addLetterPDF(m core.Maroto, view TenderDocumentView, content letterContent) {
	for _, h := range content.HeaderLines {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New(h, props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Center,
				})),
			),
		)
	}
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New(content.Title, props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Center,
			})),
		),
		row.New(6),
	)

	line := props.Text{Size: 10, Align: align.Left}
	m.AddRows(
		row.New(6).Add(col.New(12).Add(text.New("To,", line))),
		row.New(6).Add(col.New(12).Add(text.New(view.LowestName, line))),
		row.New(4),
	)

	for _, info := range content.InfoLines {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(info, line))))
	}
	m.AddRows(
		row.New(4),
		row.New(6).Add(col.New(12).Add(text.New("Dear Sir,", line))),
		row.New(2),
	)

	para := props.Text{Size: 10, Align: align.Left}
	for _, p := range content.Body {
		m.AddRows(row.New(30).Add(col.New(12).Add(text.New(p, para))))
	}

	m.AddRows(row.New(10))
	for _, c := range content.Closing {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(c, line))))
	}
}
