package services

import (
	"fmt"
	"strings"
)

// DocumentType identifies one of the four tender documents.
type DocumentType string

const (
	DocComparative DocumentType = "comparative"
	DocScrutiny    DocumentType = "scrutiny"
	DocWorkOrder   DocumentType = "work_order"
	DocAcceptance  DocumentType = "acceptance"
)

// DocumentTypes lists all document types in generation order.
var DocumentTypes = []DocumentType{DocComparative, DocScrutiny, DocWorkOrder, DocAcceptance}

// FileStem returns the document's file name prefix, e.g. "Comparative_Statement".
func (d DocumentType) FileStem() string {
	switch d {
	case DocComparative:
		return "Comparative_Statement"
	case DocScrutiny:
		return "Scrutiny_Sheet"
	case DocWorkOrder:
		return "Work_Order"
	case DocAcceptance:
		return "Acceptance_Letter"
	}
	return string(d)
}

// Valid reports whether d names a known document type.
func (d DocumentType) Valid() bool {
	switch d {
	case DocComparative, DocScrutiny, DocWorkOrder, DocAcceptance:
		return true
	}
	return false
}

// Format identifies a renderer back-end: an editable workbook or a
// fixed-layout PDF.
type Format string

const (
	FormatStructured Format = "structured"
	FormatPaginated  Format = "paginated"
)

// Formats lists both back-ends in generation order.
var Formats = []Format{FormatStructured, FormatPaginated}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatPaginated {
		return "pdf"
	}
	return "xlsx"
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPaginated {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Valid reports whether f names a known format.
func (f Format) Valid() bool {
	return f == FormatStructured || f == FormatPaginated
}

// ArtifactFileName builds the delivery file name, e.g.
// "Scrutiny_Sheet_27-2024-25.pdf". NIT numbers contain slashes, which must
// not leak into file names.
func ArtifactFileName(docType DocumentType, nitNumber string, format Format) string {
	return fmt.Sprintf("%s_%s.%s", docType.FileStem(), sanitizeFileStem(nitNumber), format.Ext())
}

func sanitizeFileStem(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// Render produces the bytes of one document in one format from the shared
// view. Renderers only lay out figures the view already carries.
func Render(view TenderDocumentView, docType DocumentType, format Format) ([]byte, error) {
	if !docType.Valid() {
		return nil, &ValidationError{Field: "doc_type", Message: fmt.Sprintf("unknown document type %q", docType)}
	}
	if !format.Valid() {
		return nil, &ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", format)}
	}
	if err := checkRenderable(view, docType); err != nil {
		return nil, err
	}
	if format == FormatPaginated {
		return renderPDF(view, docType)
	}
	return renderWorkbook(view, docType)
}

// checkRenderable verifies the fields a given document template cannot do
// without. A failure here aborts only that document.
func checkRenderable(view TenderDocumentView, docType DocumentType) error {
	if view.WorkName == "" {
		return &RenderError{DocumentType: docType, Field: "work_name", Message: "work name is required"}
	}
	if view.NITNumber == "" {
		return &RenderError{DocumentType: docType, Field: "nit_number", Message: "NIT number is required"}
	}
	switch docType {
	case DocComparative:
		if view.ParticipantCount == 0 {
			return &RenderError{DocumentType: docType, Field: "bidders", Message: "no bidders to compare"}
		}
	case DocScrutiny:
		// The scrutiny sheet is a statutory form; its date rows cannot be
		// left blank.
		if view.NITDate == "" {
			return &RenderError{DocumentType: docType, Field: "nit_date", Message: "NIT date is required"}
		}
		if view.ReceiptDate == "" {
			return &RenderError{DocumentType: docType, Field: "receipt_date", Message: "tender receipt date is required"}
		}
	case DocWorkOrder, DocAcceptance:
		if view.LowestName == "" {
			return &RenderError{DocumentType: docType, Field: "lowest_bidder", Message: "no awarded bidder to address"}
		}
	}
	return nil
}

// scrutinyRow is one line of the statutory scrutiny checklist. The number
// column is blank on continuation rows.
type scrutinyRow struct {
	Num   string
	Label string
	Value string
}

// scrutinyRows builds the fixed 16-point checklist. Row order and numbering
// follow the statutory form and must not be reordered.
func scrutinyRows(view TenderDocumentView) []scrutinyRow {
	return []scrutinyRow{
		{"1", "Head of Account", view.Office.HeadOfAccount},
		{"2", "Name of work", view.WorkName},
		{"", "Job No.", "-"},
		{"3", "Reference of ADM. Sanction", "-"},
		{"", "Amount in Rs.", view.EstimatedAmount},
		{"4", "Reference of technical sanction with amount", "-"},
		{"5", "Date of calling NIT", view.NITDate},
		{"6", "Date of receipt of tender", view.ReceiptDate},
		{"7", "No. of tender sold", fmt.Sprintf("%d", view.TendersSold)},
		{"8", "No. of tender received", fmt.Sprintf("%d", view.TendersReceived)},
		{"9", "Allotment of fund during the current financial year", "Adequate."},
		{"10", "Expenditure up to last bill", "Nil."},
		{"11", "Lowest rate quoted and condition if any", view.LowestLabel + ". No Condition."},
		{"12", "Financial implication of condition if any in tender", "Not Applicable."},
		{"13", "Name of lowest contractor", view.LowestName},
		{"14", "Authority competent to sanction the tender", "The " + view.Office.AuthorityTitle},
		{"15", "Validity of tender", fmt.Sprintf("%d Days", view.Office.ValidityDays)},
		{"", "Valid Upto Dated", orDash(view.ValidUpto)},
		{"16", "Remarks if any", "None."},
	}
}

// letterContent is the shared text of an addressed letter document, consumed
// identically by both back-ends.
type letterContent struct {
	HeaderLines []string
	Title       string
	InfoLines   []string
	Body        []string
	Closing     []string
}

// workOrderContent builds the written order to commence work.
func workOrderContent(view TenderDocumentView) letterContent {
	return letterContent{
		Title: "WRITTEN ORDER TO COMMENCE WORK",
		InfoLines: append(letterAddress(view), []string{
			fmt.Sprintf("Agreement No.: /%s", orDash(view.AgreementYear)),
			"Stipulated date for commencement of work: " + orDash(view.CommencementDate),
			"Stipulated date for completion of work: " + orDash(view.CompletionDate),
			"Administrative Sanction: -",
			"Technical Sanction: -",
			"Budget Provision: -",
		}...),
		Body: []string{
			"You are therefore, requested to please contact the Assistant " +
				"Engineer-in-Charge and start the work. The time allowed for " +
				"commencement of work shall be reckoned from 1st days after the " +
				"receipt of this order. Including tender document shall form part " +
				"of the agreement and shall be treated as executed between you " +
				"and the Governor of Rajasthan.",
		},
		Closing: letterClosing(view),
	}
}

// acceptanceContent builds the letter of acceptance of tender.
func acceptanceContent(view TenderDocumentView) letterContent {
	return letterContent{
		HeaderLines: []string{view.Office.OfficeName},
		Title:       "(Letter of Acceptance of Tender)",
		InfoLines: append(letterAddress(view),
			fmt.Sprintf("Accepted Amount: Rs. %s (%s)", view.LowestAmount, view.LowestWords),
		),
		Body: []string{
			"Security Deposit as per rule of the gross amount of the running " +
				"bill shall be deducted from each running bill or you may opt to " +
				"deposit full amount of security deposit in the shape of bank " +
				"guarantee or any acceptable form of security before or at the " +
				"time of executing agreement. Kindly submit the required stamp " +
				fmt.Sprintf("duty of Rs. %s/- as per rule and Deposit Additional ", FormatQty(view.Office.StampDutyRs)) +
				"Performance Guarantee Amounting to Rs NIL in this Office and do " +
				"may sign the agreement within 3 days failing which action as " +
				"per rule may be initiated.",
			"The receipt of the may please be acknowledged.",
		},
		Closing: letterClosing(view),
	}
}

func letterAddress(view TenderDocumentView) []string {
	return []string{
		"Name of Work: " + view.WorkName,
		fmt.Sprintf("NIT No.: %s     ITEM-1", view.NITNumber),
		"NIT Date: " + orDash(view.NITDate),
		"Tender Receipt Date: " + orDash(view.ReceiptDate),
		"Your Tender / Negotiations dated: " + orDash(view.ReceiptDate),
	}
}

func letterClosing(view TenderDocumentView) []string {
	return []string{
		"Yours Faithfully,",
		"",
		view.Office.AuthorityTitle,
		view.Office.GovernmentLine,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
