package utils

import (
	"checkout-service/internal/pkg/constvars"
	"checkout-service/internal/pkg/dto/requests"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

var errReceiptMissing = errors.New("receipt file is missing from the form")

// BuildHistoryPaginationRequest reads limit and offset. Missing values take
// the defaults; malformed values are reported so the caller can answer 400.
func BuildHistoryPaginationRequest(r *http.Request) (*requests.HistoryPagination, error) {
	pagination := &requests.HistoryPagination{
		Limit:  constvars.DefaultHistoryLimit,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get(constvars.URLQueryParamLimit); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}
		pagination.Limit = limit
	}

	if offsetStr := r.URL.Query().Get(constvars.URLQueryParamOffset); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}
		pagination.Offset = offset
	}

	return pagination, nil
}

// BuildCheckoutCommand reads the session id from the URL and the optional
// expected version header.
func BuildCheckoutCommand(r *http.Request) (requests.CheckoutCommand, error) {
	command := requests.CheckoutCommand{
		SessionID: chi.URLParam(r, constvars.URLParamSessionID),
	}

	if versionStr := strings.TrimSpace(r.Header.Get(constvars.HeaderCheckoutVersion)); versionStr != "" {
		version, err := strconv.ParseInt(versionStr, 10, 64)
		if err != nil {
			return command, err
		}
		command.ExpectedVersion = version
	}

	return command, nil
}

// BuildAttachTransferReceiptRequest pulls the receipt file out of a parsed
// multipart form. The caller owns closing the returned file.
func BuildAttachTransferReceiptRequest(r *http.Request, command requests.CheckoutCommand) (*requests.AttachTransferReceipt, multipart.File, error) {
	file, fileHeader, err := r.FormFile(constvars.FormFieldReceiptFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, errReceiptMissing
		}
		return nil, nil, err
	}

	contentType, err := detectContentType(file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	request := &requests.AttachTransferReceipt{
		CheckoutCommand: command,
		FileName:        fileHeader.Filename,
		ContentType:     contentType,
		Size:            fileHeader.Size,
		File:            file,
	}
	return request, file, nil
}

// detectContentType sniffs the media type from the leading bytes and rewinds
// the file. The part header sent by the client is not trusted.
func detectContentType(file multipart.File) (string, error) {
	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(contentType), nil
}

// ReceiptExtension maps an accepted receipt content type to its file extension.
func ReceiptExtension(contentType string) (string, bool) {
	switch contentType {
	case constvars.MIMEImageJPEG:
		return ".jpg", true
	case constvars.MIMEImagePNG:
		return ".png", true
	case constvars.MIMEApplicationPDF:
		return ".pdf", true
	}
	return "", false
}
