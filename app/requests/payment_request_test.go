package requests

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentpay/app/models/payment"
)

var manila = time.FixedZone("PHT", 8*60*60)

// pngHeader 足以让 DetectContentType 识别为 image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

type upload struct {
	name    string
	content []byte
}

func multipartContext(t *testing.T, fields map[string]string, file *upload) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("proof", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/payments", &body)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c
}

func validFields() map[string]string {
	return map[string]string{
		"tenant":  " Jane Doe ",
		"amount":  "5000",
		"method":  "cash",
		"paid_on": "2026-10-05",
		"unit":    "2A",
	}
}

func fieldErrors(t *testing.T, err error) url.Values {
	t.Helper()
	var verr ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Errors
}

func TestValidatePaymentForm_Valid(t *testing.T) {
	c := multipartContext(t, validFields(), nil)

	form, err := ValidatePaymentForm(c, FormOptions{Location: manila})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", form.Tenant)
	assert.True(t, decimal.NewFromInt(5000).Equal(form.Amount))
	assert.Equal(t, payment.MethodCash, form.Method)
	assert.Equal(t, "2026-10-05", form.PaidOn)
	assert.Equal(t, "2A", form.Unit)
	assert.Nil(t, form.Proof)
}

func TestValidatePaymentForm_NormalisesMethod(t *testing.T) {
	fields := validFields()
	fields["method"] = "Bank Transfer"
	c := multipartContext(t, fields, nil)

	form, err := ValidatePaymentForm(c, FormOptions{})

	require.NoError(t, err)
	assert.Equal(t, payment.MethodBankTransfer, form.Method)
}

func TestValidatePaymentForm_DefaultsPaidOnToToday(t *testing.T) {
	fields := validFields()
	delete(fields, "paid_on")
	c := multipartContext(t, fields, nil)

	form, err := ValidatePaymentForm(c, FormOptions{Location: manila})

	require.NoError(t, err)
	assert.Equal(t, time.Now().In(manila).Format(payment.DateLayout), form.PaidOn)
}

func TestValidatePaymentForm_RejectsAmounts(t *testing.T) {
	for _, amount := range []string{"", "abc", "0", "0.00", "-5", "1e3", "5,000"} {
		fields := validFields()
		fields["amount"] = amount
		c := multipartContext(t, fields, nil)

		form, err := ValidatePaymentForm(c, FormOptions{})

		assert.Nil(t, form, amount)
		assert.NotEmpty(t, fieldErrors(t, err)["amount"], amount)
	}
}

func TestValidatePaymentForm_RejectsSubCentAmount(t *testing.T) {
	fields := validFields()
	fields["amount"] = "0.001"
	c := multipartContext(t, fields, nil)

	form, err := ValidatePaymentForm(c, FormOptions{})

	assert.Nil(t, form)
	assert.Equal(t, []string{"Amount may not have more than 2 decimal places."}, fieldErrors(t, err)["amount"])
}

func TestValidatePaymentForm_RejectsOversizedAmount(t *testing.T) {
	fields := validFields()
	fields["amount"] = "1000000000000"
	c := multipartContext(t, fields, nil)

	form, err := ValidatePaymentForm(c, FormOptions{})

	assert.Nil(t, form)
	assert.Equal(t, []string{"Amount is too large."}, fieldErrors(t, err)["amount"])
}

func TestValidatePaymentForm_AcceptsCents(t *testing.T) {
	fields := validFields()
	fields["amount"] = "1250.50"
	c := multipartContext(t, fields, nil)

	form, err := ValidatePaymentForm(c, FormOptions{})

	require.NoError(t, err)
	assert.Equal(t, "1250.5", form.Amount.String())
}

func TestValidatePaymentForm_RejectsMethod(t *testing.T) {
	for _, method := range []string{"", "cheque", "crypto"} {
		fields := validFields()
		fields["method"] = method
		c := multipartContext(t, fields, nil)

		_, err := ValidatePaymentForm(c, FormOptions{})

		assert.NotEmpty(t, fieldErrors(t, err)["method"], method)
	}
}

func TestValidatePaymentForm_CollectsAllErrors(t *testing.T) {
	c := multipartContext(t, map[string]string{"tenant": "  ", "paid_on": "10/05/2026"}, nil)

	_, err := ValidatePaymentForm(c, FormOptions{})

	errs := fieldErrors(t, err)
	assert.NotEmpty(t, errs["tenant"])
	assert.NotEmpty(t, errs["amount"])
	assert.NotEmpty(t, errs["method"])
	assert.NotEmpty(t, errs["paid_on"])
}

func TestValidatePaymentForm_WithProof(t *testing.T) {
	c := multipartContext(t, validFields(), &upload{name: "receipt.png", content: pngHeader})

	form, err := ValidatePaymentForm(c, FormOptions{})

	require.NoError(t, err)
	require.NotNil(t, form.Proof)
	assert.Equal(t, "receipt.png", form.Proof.Name)
	assert.Equal(t, "image/png", form.Proof.ContentType)
	assert.Equal(t, pngHeader, form.Proof.Content)
	assert.Equal(t, form.Proof, form.Submission().Proof)
}

func TestValidatePaymentForm_RejectsProofExtension(t *testing.T) {
	c := multipartContext(t, validFields(), &upload{name: "receipt.exe", content: []byte("MZ")})

	_, err := ValidatePaymentForm(c, FormOptions{})

	assert.NotEmpty(t, fieldErrors(t, err)["proof"])
}

func TestValidatePaymentForm_RejectsLargeProof(t *testing.T) {
	content := append([]byte{}, pngHeader...)
	content = append(content, []byte(strings.Repeat("x", 2048))...)
	c := multipartContext(t, validFields(), &upload{name: "receipt.png", content: content})

	_, err := ValidatePaymentForm(c, FormOptions{MaxUploadBytes: 1024})

	assert.NotEmpty(t, fieldErrors(t, err)["proof"])
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "5 MB", humanBytes(5<<20))
	assert.Equal(t, "512 KB", humanBytes(512<<10))
	assert.Equal(t, "1000 bytes", humanBytes(1000))
}

func TestValidatePaymentForm_AcceptsUppercaseExtension(t *testing.T) {
	c := multipartContext(t, validFields(), &upload{name: "IMG_0001.PNG", content: pngHeader})

	form, err := ValidatePaymentForm(c, FormOptions{})

	require.NoError(t, err)
	assert.Equal(t, "IMG_0001.PNG", form.Proof.Name)
}

func TestValidatePaymentForm_ProofDisabled(t *testing.T) {
	c := multipartContext(t, validFields(), &upload{name: "receipt.png", content: pngHeader})

	_, err := ValidatePaymentForm(c, FormOptions{DisableProof: true})

	assert.Equal(t, []string{"Receipt uploads are not enabled."}, fieldErrors(t, err)["proof"])
}
