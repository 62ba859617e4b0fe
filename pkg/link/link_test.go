package link

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/seclink/pkg/codec"
	"github.com/robotalks/seclink/pkg/display"
	fx "github.com/robotalks/seclink/pkg/framework"
	"github.com/robotalks/seclink/pkg/input"
	"github.com/robotalks/seclink/pkg/radio"
	"github.com/robotalks/seclink/pkg/radio/mem"
	"github.com/robotalks/seclink/pkg/telemetry"
)

type logEntry struct {
	err  bool
	text string
}

type recordingLog struct {
	entries []logEntry
	lock    sync.Mutex
}

func (l *recordingLog) Infof(format string, args ...interface{}) {
	l.add(false, fmt.Sprintf(format, args...))
}

func (l *recordingLog) Errorf(format string, args ...interface{}) {
	l.add(true, fmt.Sprintf(format, args...))
}

func (l *recordingLog) add(isErr bool, text string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.entries = append(l.entries, logEntry{err: isErr, text: text})
}

func (l *recordingLog) all() []logEntry {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]logEntry(nil), l.entries...)
}

type recordingPublisher struct {
	events []*telemetry.LinkEvent
}

func (p *recordingPublisher) Publish(ev *telemetry.LinkEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type countingChannel struct {
	radio.Channel
	sends int
}

func (c *countingChannel) Send(frame []byte) bool {
	c.sends++
	return c.Channel.Send(frame)
}

type testLink struct {
	params Params
	air    *mem.Air
	lines  *input.Queue
	tx     *Transmitter
	txCh   *countingChannel
	rx     *Receiver
	panel  *display.Panel
	txLog  *recordingLog
	rxLog  *recordingLog
	loop   *fx.Loop
}

func newTestLink(t *testing.T) *testLink {
	l := &testLink{
		params: DefaultParams(),
		air:    mem.NewAir(radio.DefaultSettings),
		lines:  input.NewQueue(0),
		panel:  display.NewPanel(&bytes.Buffer{}),
		txLog:  &recordingLog{},
		rxLog:  &recordingLog{},
	}
	require.NoError(t, l.panel.Init())
	rxCh, err := l.air.OpenRead(l.params.Address)
	require.NoError(t, err)
	txCh, err := l.air.OpenWrite(l.params.Address)
	require.NoError(t, err)
	l.txCh = &countingChannel{Channel: txCh}
	l.tx = &Transmitter{Params: l.params, Input: l.lines, Channel: l.txCh}
	l.rx = &Receiver{Params: l.params, Channel: rxCh, Display: l.panel}
	require.NoError(t, l.rx.Splash())

	// transmitter runs before receiver so a frame crosses in one iteration.
	l.loop = fx.NewLoop()
	l.loop.AddController(fx.PrLvPoll, NewCycle[string](l.tx))
	l.loop.AddController(fx.PrLvPoll+1, NewCycle[[]byte](l.rx))
	l.loop.AddController(fx.PrLvPostProc, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			rep := mc.CurrentMessage().(*Report)
			mc.MessageTaken()
			if rep.Role == RoleTransmitter {
				NewReporter(l.txLog).Report(rep)
			} else {
				NewReporter(l.rxLog).Report(rep)
			}
		}))
		return nil
	}))
	return l
}

func (l *testLink) send(t *testing.T, line string) {
	require.NoError(t, l.lines.Push(context.Background(), line))
	l.loop.RunIteration(context.Background())
}

func TestSplash(t *testing.T) {
	l := newTestLink(t)
	assert.Equal(t, []string{SplashText, ReadyText}, l.panel.Lines())
}

func TestHelloEndToEnd(t *testing.T) {
	l := newTestLink(t)
	l.send(t, "HELLO")

	assert.Equal(t, []string{"Received:", "HELLO"}, l.panel.Lines())
	expected := codec.Encode([]byte("HELLO"), l.params.Key)
	tx := l.txLog.all()
	require.Len(t, tx, 1)
	assert.False(t, tx[0].err)
	assert.Equal(t, fmt.Sprintf("Sent: 'HELLO' as encrypted: %x", []byte(expected)), tx[0].text)
	rx := l.rxLog.all()
	require.Len(t, rx, 1)
	assert.Equal(t, logEntry{text: "Received: HELLO"}, rx[0])
}

func TestLineIsTrimmed(t *testing.T) {
	l := newTestLink(t)
	l.send(t, "  HELLO \r\n")
	assert.Equal(t, "HELLO", l.panel.Lines()[1])
}

func TestLongTextTruncatedOnDisplay(t *testing.T) {
	l := newTestLink(t)
	l.send(t, "The quick brown fox jumps")
	assert.Equal(t, "The quick brown ", l.panel.Lines()[1])
	assert.Equal(t, "Received: The quick brown fox jumps", l.rxLog.all()[0].text)
}

func TestCorruptedFrame(t *testing.T) {
	l := newTestLink(t)
	l.air.Tamper = func(frame []byte) []byte {
		// checksum sits before the terminator.
		frame[len(frame)-2] ^= 0x01
		return frame
	}
	l.send(t, "HELLO")

	assert.Equal(t, []string{"Received:", BadTransmission}, l.panel.Lines())
	rx := l.rxLog.all()
	require.Len(t, rx, 1)
	assert.True(t, rx[0].err)
	assert.True(t, strings.HasPrefix(rx[0].text, "Error: Message corrupted!"))
}

func TestOversizedRejected(t *testing.T) {
	l := newTestLink(t)
	l.send(t, strings.Repeat("x", 40))

	assert.Zero(t, l.txCh.sends)
	tx := l.txLog.all()
	require.Len(t, tx, 1)
	assert.True(t, tx[0].err)
	assert.True(t, strings.HasPrefix(tx[0].text, "Error: Message too long!"))
	assert.Equal(t, []string{SplashText, ReadyText}, l.panel.Lines())
	assert.Empty(t, l.rxLog.all())
}

func TestLongestMessageAccepted(t *testing.T) {
	l := newTestLink(t)
	msg := strings.Repeat("y", l.params.MaxMessageLen())
	require.Len(t, msg, 30)
	l.send(t, msg)
	assert.Equal(t, 1, l.txCh.sends)
	assert.Equal(t, "Received: "+msg, l.rxLog.all()[0].text)

	l.send(t, msg+"y")
	assert.Equal(t, 1, l.txCh.sends)
}

func TestSendFailed(t *testing.T) {
	air := mem.NewAir(radio.DefaultSettings)
	ch, err := air.OpenWrite(DefaultAddress)
	require.NoError(t, err)
	lines := input.NewQueue(1)
	require.NoError(t, lines.Push(context.Background(), "HELLO"))
	tx := &Transmitter{Params: DefaultParams(), Input: lines, Channel: ch}
	line, ok := tx.Poll()
	require.True(t, ok)
	rep := tx.React(context.Background(), line)
	assert.Equal(t, ReportSendFailed, rep.Kind)
	assert.ErrorIs(t, rep.Err, ErrSendFailed)

	log := &recordingLog{}
	NewReporter(log).Report(rep)
	assert.Equal(t, []logEntry{{err: true, text: "Transmission failed!"}}, log.all())
}

func TestTransmitterStages(t *testing.T) {
	air := mem.NewAir(radio.DefaultSettings)
	_, err := air.OpenRead(DefaultAddress)
	require.NoError(t, err)
	ch, err := air.OpenWrite(DefaultAddress)
	require.NoError(t, err)
	var stages []Stage
	tx := &Transmitter{
		Params:  DefaultParams(),
		Channel: ch,
		Trace:   func(s Stage) { stages = append(stages, s) },
	}
	tx.React(context.Background(), "HI")
	assert.Equal(t, []Stage{StageLineReady, StageEncoding, StageTransmitting, StageReporting, StageIdle}, stages)

	stages = nil
	rep := tx.React(context.Background(), strings.Repeat("z", 31))
	assert.Equal(t, []Stage{StageLineReady, StageIdle}, stages)
	assert.Equal(t, ReportRejected, rep.Kind)
	assert.ErrorIs(t, rep.Err, ErrOversized)
	assert.Nil(t, rep.Frame)
}

func TestReceiverStages(t *testing.T) {
	var stages []Stage
	panel := display.NewPanel(&bytes.Buffer{})
	require.NoError(t, panel.Init())
	rx := &Receiver{
		Params:  DefaultParams(),
		Display: panel,
		Trace:   func(s Stage) { stages = append(stages, s) },
	}
	rep := rx.React(context.Background(), []byte{0x00})
	assert.Equal(t, []Stage{StageFrameAvailable, StageDecoding, StageDisplaying, StageIdle}, stages)
	assert.Equal(t, ReportEmptyFrame, rep.Kind)
	assert.ErrorIs(t, rep.Err, codec.ErrEmptyFrame)
	assert.Equal(t, []string{HeaderText, EmptyFrameText}, panel.Lines())
}

func TestEmptyLine(t *testing.T) {
	l := newTestLink(t)
	l.send(t, "")
	assert.Equal(t, []string{HeaderText, ""}, l.panel.Lines())
	assert.Equal(t, "Sent: '' as encrypted: 00", l.txLog.all()[0].text)
}

func TestReceiverQueueDepth(t *testing.T) {
	l := newTestLink(t)
	for _, line := range []string{"one", "two", "three", "four"} {
		frame := codec.AppendTerminator(codec.Encode([]byte(line), l.params.Key))
		l.txCh.Send(frame)
	}
	for i := 0; i < 4; i++ {
		l.loop.RunIteration(context.Background())
	}
	var received []string
	for _, e := range l.rxLog.all() {
		received = append(received, e.text)
	}
	assert.Equal(t, []string{"Received: one", "Received: two", "Received: three"}, received)
}

func TestDisplayFailureReported(t *testing.T) {
	rx := &Receiver{Params: DefaultParams(), Display: display.NewPanel(&bytes.Buffer{})}
	frame := codec.AppendTerminator(codec.Encode([]byte("HI"), rx.Params.Key))
	rep := rx.React(context.Background(), frame)
	assert.Equal(t, ReportReceived, rep.Kind)
	assert.ErrorIs(t, rep.DisplayErr, display.ErrNotInitialized)

	log := &recordingLog{}
	NewReporter(log).Report(rep)
	entries := log.all()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].err)
}

func TestReporterPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	r := &Reporter{Log: &recordingLog{}, Publisher: pub, Device: "dev-1"}
	loop := fx.NewLoop()
	r.AddToLoop(loop)
	rep := &Report{Role: RoleReceiver, Kind: ReportCorrupted, Frame: []byte{1, 2, 0}, Err: codec.ErrCorrupted}
	loop.AddController(fx.PrLvPoll, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().AddMessages(rep)
		return nil
	}))
	loop.RunIteration(context.Background())

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, "dev-1", ev.Device)
	assert.Equal(t, "receiver", ev.Role)
	assert.Equal(t, telemetry.EventCorrupted, ev.Kind)
	assert.Equal(t, codec.ErrCorrupted.Error(), ev.Error)
	assert.Equal(t, []byte{1, 2, 0}, ev.Frame)
}

func TestCycleStampsReportTime(t *testing.T) {
	l := newTestLink(t)
	var reports []*Report
	l.loop.AddController(fx.PrLvPostProc-1, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			reports = append(reports, mc.CurrentMessage().(*Report))
		}))
		return nil
	}))
	l.send(t, "HELLO")
	require.Len(t, reports, 2)
	for _, rep := range reports {
		assert.False(t, rep.Time.IsZero())
	}
}

func TestOversizedStreamLineDoesNotStopInput(t *testing.T) {
	l := newTestLink(t)
	lines := input.NewReader(strings.NewReader(strings.Repeat("x", 70*1024) + "\nHELLO\n"))
	l.tx.Input = lines
	require.NoError(t, lines.Run(context.Background()))

	l.loop.RunIteration(context.Background())
	l.loop.RunIteration(context.Background())

	tx := l.txLog.all()
	require.Len(t, tx, 2)
	assert.True(t, tx[0].err)
	assert.True(t, strings.HasPrefix(tx[0].text, "Error: Message too long!"))
	assert.False(t, tx[1].err)
	assert.Equal(t, 1, l.txCh.sends)
	assert.Equal(t, []string{HeaderText, "HELLO"}, l.panel.Lines())
}
