// Package recorder 处理一次收款提交：上传凭证、写入账本、发布事件
//
// 每次提交要么完整写入一行，要么什么都不写。
package recorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentpay/app/models/payment"
	"rentpay/pkg/app"
	"rentpay/pkg/events"
	"rentpay/pkg/logger"
	"rentpay/pkg/metrics"
)

var (
	// ErrInvalid 提交内容未通过校验，没有发起任何外部调用
	ErrInvalid = errors.New("invalid submission")
	// ErrUploadRejected 凭证上传失败，未写入账本
	ErrUploadRejected = errors.New("upload rejected")
	// ErrWriteRejected 账本写入失败
	ErrWriteRejected = errors.New("write rejected")
)

// Attachment 凭证文件
type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// ProofStore 凭证存储，返回可访问的引用
type ProofStore interface {
	Upload(ctx context.Context, a Attachment) (string, error)
}

// LedgerWriter 账本，一次调用追加一行
type LedgerWriter interface {
	Append(ctx context.Context, p *payment.Payment) error
}

// EventPublisher 事件发布
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// Submission 已通过表单校验的提交内容
type Submission struct {
	Tenant string
	Amount decimal.Decimal
	Method payment.Method
	PaidOn string
	Unit   string
	Notes  string
	Proof  *Attachment
}

// Recorder 提交处理器
type Recorder struct {
	ledger  LedgerWriter
	proofs  ProofStore
	events  EventPublisher
	topic   string
	clock   *app.MonotonicClock
	newID   func() string
	metrics *metrics.Submissions
}

// Option 配置 Recorder
type Option func(*Recorder)

// WithEvents 写入成功后发布事件
func WithEvents(pub EventPublisher, topic string) Option {
	return func(r *Recorder) {
		r.events = pub
		r.topic = topic
	}
}

// WithClock 指定时钟
func WithClock(clock *app.MonotonicClock) Option {
	return func(r *Recorder) {
		r.clock = clock
	}
}

// WithIDGenerator 指定记录 ID 生成方式
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) {
		r.newID = fn
	}
}

// WithMetrics 记录提交结果与外部调用耗时
func WithMetrics(m *metrics.Submissions) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// New 创建提交处理器，proofs 为 nil 时不接受凭证
func New(ledger LedgerWriter, proofs ProofStore, opts ...Option) *Recorder {
	r := &Recorder{
		ledger: ledger,
		proofs: proofs,
		topic:  events.TopicPaymentRecorded,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = app.NewMonotonicClock(nil)
	}
	return r
}

// AcceptsProof 是否配置了凭证存储
func (r *Recorder) AcceptsProof() bool {
	return r.proofs != nil
}

// Submit 记录一次收款
// 有凭证时先上传，拿到引用后才写入账本；任一步失败都不会留下账本行
func (r *Recorder) Submit(ctx context.Context, s Submission) (*payment.Payment, error) {
	p := &payment.Payment{
		ID:        r.newID(),
		Tenant:    strings.TrimSpace(s.Tenant),
		Amount:    s.Amount,
		Method:    s.Method,
		Timestamp: r.clock.Now(),
		Unit:      strings.TrimSpace(s.Unit),
		PaidOn:    s.PaidOn,
		Notes:     strings.TrimSpace(s.Notes),
	}
	if err := p.Validate(); err != nil {
		r.outcome(metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if s.Proof != nil {
		ref, err := r.uploadProof(ctx, p, *s.Proof)
		if err != nil {
			logger.Warn("Recorder",
				zap.String("payment_id", p.ID),
				zap.String("stage", "upload"),
				zap.Error(err),
			)
			r.outcome(metrics.OutcomeUploadRejected)
			return nil, err
		}
		p.ProofRef = ref
	}

	start := time.Now()
	err := r.ledger.Append(ctx, p)
	r.latency(metrics.OpAppend, start, err)
	if err != nil {
		logger.Error("Recorder",
			zap.String("payment_id", p.ID),
			zap.String("stage", "append"),
			zap.Error(err),
		)
		r.outcome(metrics.OutcomeWriteRejected)
		return nil, fmt.Errorf("%w: %w", ErrWriteRejected, err)
	}
	r.outcome(metrics.OutcomeRecorded)

	logger.Info("Recorder",
		zap.String("payment_id", p.ID),
		zap.String("tenant", p.Tenant),
		zap.String("amount", p.Amount.String()),
		zap.String("method", string(p.Method)),
		zap.Bool("proof", p.HasProof()),
	)
	logger.DebugJSON("Recorder", "payment", p)

	r.publish(ctx, p)
	return p, nil
}

func (r *Recorder) uploadProof(ctx context.Context, p *payment.Payment, a Attachment) (string, error) {
	if r.proofs == nil {
		return "", fmt.Errorf("%w: proof storage is not configured", ErrUploadRejected)
	}

	a.Name = ProofFileName(p.Unit, p.Tenant, p.Timestamp, a.Name)
	start := time.Now()
	ref, err := r.proofs.Upload(ctx, a)
	r.latency(metrics.OpUpload, start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("%w: storage returned an empty reference", ErrUploadRejected)
	}
	return ref, nil
}

// publish 发布事件失败不影响已写入的记录
func (r *Recorder) publish(ctx context.Context, p *payment.Payment) {
	if r.events == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := r.events.Publish(pubCtx, r.topic, p.ID, events.PaymentRecorded{
		PaymentID:  p.ID,
		Tenant:     p.Tenant,
		Unit:       p.Unit,
		Amount:     p.Amount,
		Method:     string(p.Method),
		PaidOn:     p.PaidOn,
		HasProof:   p.HasProof(),
		OccurredAt: p.Timestamp,
	})
	r.latency(metrics.OpPublish, start, err)
	if err != nil {
		logger.WarnString("Recorder", "Publish", fmt.Sprintf("事件发布失败 记录:%s 错误:%v", p.ID, err))
	}
}

func (r *Recorder) outcome(o metrics.Outcome) {
	if r.metrics != nil {
		r.metrics.RecordOutcome(o)
	}
}

func (r *Recorder) latency(op metrics.Operation, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.RecordLatency(op, time.Since(start), err)
	}
}
