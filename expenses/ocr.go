package expenses

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	vision "google.golang.org/api/vision/v1"

	"travelbot-backend/files"
)

// OCRService extracts receipt text via the Google Vision API (images)
// or the PDF text layer (PDF receipts) and derives an expense from it
// with best-effort regex parsing. Extraction failures degrade to
// zero/default values; the raw OCR text is always persisted.
type OCRService struct {
	repo   *Repository
	vision *vision.Service
}

var ErrOCRUnavailable = errors.New("ocr provider not configured")

func NewOCRService(ctx context.Context, repo *Repository) *OCRService {
	svc, err := vision.NewService(ctx)
	if err != nil {
		// Credentials missing is an expected local setup; the /ocr
		// endpoint reports 502 when used without them.
		log.Printf("[ocr][disabled] err=%v", err)
		svc = nil
	}
	return &OCRService{repo: repo, vision: svc}
}

// ProcessReceipt OCRs the receipt at imageURL and records the
// resulting expense against tripID.
func (s *OCRService) ProcessReceipt(ctx context.Context, imageURL, tripID string) (*Expense, error) {
	var text string
	var err error
	if strings.HasSuffix(strings.ToLower(imageURL), ".pdf") {
		text, err = files.ExtractPDFText(imageURL, 0)
	} else {
		text, err = s.detectText(ctx, imageURL)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[ocr][text] trip_id=%s chars=%d", tripID, len(text))

	amount := ExtractAmount(text)
	date := ExtractDate(text)
	if date.IsZero() {
		date = time.Now()
	}

	e := &Expense{
		TripID:      tripID,
		Amount:      amount,
		Currency:    "BRL",
		Category:    Other,
		Description: "Receipt via OCR",
		Date:        date,
		ReceiptURL:  imageURL,
		OCRText:     text,
	}
	if err := s.repo.Create(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *OCRService) detectText(ctx context.Context, imageURL string) (string, error) {
	if s.vision == nil {
		return "", ErrOCRUnavailable
	}
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Source: &vision.ImageSource{ImageUri: imageURL}},
			Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}
	resp, err := s.vision.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(resp.Responses) == 0 || resp.Responses[0].FullTextAnnotation == nil {
		return "", nil
	}
	return resp.Responses[0].FullTextAnnotation.Text, nil
}

var (
	amountRe = regexp.MustCompile(`(?i)R?\$?\s*(\d+(?:\.\d{3})*[.,]\d{2})`)
	dateRe   = regexp.MustCompile(`(\d{2})[/\-](\d{2})[/\-](\d{2,4})`)
)

// ExtractAmount pulls the first currency-looking value out of OCR
// text. Returns 0 when nothing matches.
func ExtractAmount(text string) float64 {
	m := amountRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	raw := m[1]
	// 1.234,56 -> 1234.56
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.Replace(raw, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// ExtractDate parses the first dd/mm/yyyy-style date, or zero time.
func ExtractDate(text string) time.Time {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
