package verification

import (
	"time"

	"vendor-backend/internal/applications"
	"vendor-backend/internal/documents"
)

type documentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	Category   string    `json:"category"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type applicationResponse struct {
	ApplicationID     string `json:"applicationId"`
	ApplicantID       string `json:"applicantId"`
	BusinessName      string `json:"businessName,omitempty"`
	TaxID1            string `json:"taxId1,omitempty"`
	TaxID2            string `json:"taxId2,omitempty"`
	LatestOCRResultID string `json:"latestOcrResultId,omitempty"`
	Status            string `json:"status"`
}

type fraudResponse struct {
	OCRResultID string   `json:"ocrResultId"`
	Flags       []string `json:"flags"`
	Severity    string   `json:"severity"`
}

type submitResponse struct {
	Application applicationResponse `json:"application"`
	Documents   []documentResponse  `json:"documents"`
	Fraud       fraudResponse       `json:"fraud"`
}

func toApplicationResponse(app applications.Application) applicationResponse {
	return applicationResponse{
		ApplicationID:     app.ID,
		ApplicantID:       app.ApplicantID,
		BusinessName:      app.BusinessName,
		TaxID1:            app.TaxID1,
		TaxID2:            app.TaxID2,
		LatestOCRResultID: app.LatestOCRResultID,
		Status:            app.Status,
	}
}

func toDocumentResponse(doc documents.Document) documentResponse {
	return documentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		Category:   doc.Category,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		Checksum:   doc.Checksum,
		UploadedAt: doc.CreatedAt,
	}
}

func toSubmitResponse(result Result) submitResponse {
	docs := make([]documentResponse, 0, len(result.Documents))
	for _, doc := range result.Documents {
		docs = append(docs, toDocumentResponse(doc))
	}
	flags := result.Fraud.Flags
	if flags == nil {
		flags = []string{}
	}
	return submitResponse{
		Application: toApplicationResponse(result.Application),
		Documents:   docs,
		Fraud: fraudResponse{
			OCRResultID: result.OCRResult.ID,
			Flags:       flags,
			Severity:    string(result.Fraud.Severity),
		},
	}
}
