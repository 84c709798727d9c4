package ocr

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/ehz-labs/ocr-api/internal/circuitbreaker"
	"github.com/ehz-labs/ocr-api/internal/metrics"
	"github.com/ehz-labs/ocr-api/internal/tracing"
)

// defaultConfidence is used when the backend returns words without
// per-word confidence scores.
const defaultConfidence = 0.95

// VisionRecognizer extracts text through the Google Cloud Vision API. Calls
// run behind a circuit breaker so a failing backend sheds load fast.
type VisionRecognizer struct {
	client  *vision.ImageAnnotatorClient
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

// NewVisionRecognizer creates a Vision-backed recognizer. Credentials come
// from the environment (GOOGLE_APPLICATION_CREDENTIALS or metadata server).
func NewVisionRecognizer(ctx context.Context, timeout time.Duration, opts ...option.ClientOption) (*VisionRecognizer, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init vision client: %w", err)
	}

	return &VisionRecognizer{
		client: client,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             "vision_api",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		}),
		timeout: timeout,
	}, nil
}

// Recognize runs document text detection on the image bytes.
func (r *VisionRecognizer) Recognize(ctx context.Context, image []byte) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "vision.detect_document_text")
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var annotation *visionpb.TextAnnotation
	start := time.Now()
	err := r.breaker.Call(func() error {
		resp, err := r.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
			Requests: []*visionpb.AnnotateImageRequest{{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{{
					Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
				}},
			}},
		})
		if err != nil {
			return err
		}
		annotation, err = annotationFromResponse(resp)
		return err
	})
	metrics.VisionAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if err == circuitbreaker.ErrCircuitOpen {
			metrics.VisionAPICalls.WithLabelValues("rejected").Inc()
		} else {
			metrics.VisionAPICalls.WithLabelValues("failure").Inc()
		}
		return nil, err
	}
	metrics.VisionAPICalls.WithLabelValues("success").Inc()

	return resultFromAnnotation(annotation), nil
}

// Close releases the underlying gRPC connection.
func (r *VisionRecognizer) Close() error {
	return r.client.Close()
}

// annotationFromResponse unwraps the single annotation from a batch response,
// surfacing the per-image error status the API reports inside an otherwise
// successful call.
func annotationFromResponse(resp *visionpb.BatchAnnotateImagesResponse) (*visionpb.TextAnnotation, error) {
	responses := resp.GetResponses()
	if len(responses) == 0 {
		return nil, fmt.Errorf("vision: empty batch response")
	}
	if st := responses[0].GetError(); st != nil {
		return nil, fmt.Errorf("vision: %s", st.GetMessage())
	}
	return responses[0].GetFullTextAnnotation(), nil
}

// resultFromAnnotation flattens a Vision document annotation into a Result:
// full text, average word confidence, and the set of detected languages.
func resultFromAnnotation(a *visionpb.TextAnnotation) *Result {
	if a == nil || a.GetText() == "" {
		return &Result{}
	}

	var (
		confSum   float64
		confCount int
		langs     []string
		seen      = map[string]bool{}
	)

	for _, page := range a.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, para := range block.GetParagraphs() {
				for _, word := range para.GetWords() {
					if c := word.GetConfidence(); c > 0 {
						confSum += float64(c)
						confCount++
					}
					for _, lang := range word.GetProperty().GetDetectedLanguages() {
						if code := lang.GetLanguageCode(); code != "" && !seen[code] {
							seen[code] = true
							langs = append(langs, code)
						}
					}
				}
			}
		}
	}

	confidence := defaultConfidence
	if confCount > 0 {
		confidence = confSum / float64(confCount)
	}

	res := &Result{
		Text:              a.GetText(),
		Confidence:        confidence,
		DetectedLanguages: langs,
		HasText:           true,
	}
	if len(langs) > 0 {
		res.Language = langs[0]
	}
	return res
}
