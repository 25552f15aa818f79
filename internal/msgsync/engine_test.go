// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package msgsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpchat/chirp-tui/internal/model"
	"github.com/chirpchat/chirp-tui/internal/session"
)

// fakeAPI is an in-memory APIClient with controllable failures and a gate
// for holding sends in flight.
type fakeAPI struct {
	mu sync.Mutex

	history    map[string][]model.Message
	historyErr error

	sendErr  error
	sendGate chan struct{} // when non-nil, SendMessage blocks until closed
	sent     []string
	nextID   int

	editErr   error
	edits     map[string]string
	deleteErr error
	deleted   []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		history: make(map[string][]model.Message),
		edits:   make(map[string]string),
	}
}

func (f *fakeAPI) FetchMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[chatID], nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, chatID, content string) (model.Message, error) {
	f.mu.Lock()
	gate := f.sendGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return model.Message{}, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, content)
	return model.Message{
		ID:      "srv-" + string(rune('0'+f.nextID)),
		Content: content,
		Sender:  model.User{ID: "u-server", Username: "server-view"},
		Chat:    model.ChatRef{ID: chatID},
	}, nil
}

func (f *fakeAPI) EditMessage(ctx context.Context, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits[messageID] = content
	return nil
}

func (f *fakeAPI) DeleteMessage(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func newEngineForTest(api *fakeAPI) *Engine {
	e := NewEngine(api, session.New("u-alice", "alice"))
	e.SwitchChat("c1")
	return e
}

func inbound(id, content, username string) model.Message {
	return model.Message{
		ID:      id,
		Content: content,
		Sender:  model.User{ID: "u-" + username, Username: username},
		Chat:    model.ChatRef{ID: "c1"},
	}
}

// =============================================================================
// SENDING
// =============================================================================

func TestSendOptimisticAppendThenConfirm(t *testing.T) {
	api := newFakeAPI()
	api.sendGate = make(chan struct{})
	e := newEngineForTest(api)

	done := make(chan error, 1)
	go func() {
		_, err := e.Send(context.Background(), "hello")
		done <- err
	}()

	// The pending record is visible while the request is in flight.
	waitForCond(t, func() bool { return len(e.Messages()) == 1 })
	pending := e.Messages()[0]
	assert.False(t, pending.Confirmed())
	assert.Equal(t, "alice", pending.Sender.Username)
	assert.Equal(t, "hello", pending.Content)
	assert.Equal(t, 1, e.PendingCount())

	close(api.sendGate)
	require.NoError(t, <-done)

	msgs := e.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Confirmed())
	assert.Equal(t, "alice", msgs[0].Sender.Username, "local sender survives the ack")
	assert.Zero(t, e.PendingCount())
}

func TestSendFailureRollsBack(t *testing.T) {
	api := newFakeAPI()
	api.sendErr = errors.New("boom")
	e := newEngineForTest(api)
	e.Receive(inbound("m1", "earlier", "bob"))

	_, err := e.Send(context.Background(), "doomed")
	assert.ErrorIs(t, err, ErrSend)

	msgs := e.Messages()
	require.Len(t, msgs, 1, "only the rolled-back record is gone")
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Zero(t, e.PendingCount())
}

func TestSendPreconditions(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	_, err := e.Send(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	e.SwitchChat("")
	_, err = e.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoActiveChat)

	assert.Empty(t, api.sent, "no request leaves the client")
}

func TestTempIDsAreUnique(t *testing.T) {
	api := newFakeAPI()
	api.sendGate = make(chan struct{})
	e := newEngineForTest(api)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Send(context.Background(), "burst")
		}()
	}

	waitForCond(t, func() bool { return e.PendingCount() == 3 })
	seen := make(map[int64]bool)
	for _, m := range e.Messages() {
		require.False(t, seen[m.TempID], "temp id %d issued twice", m.TempID)
		seen[m.TempID] = true
	}

	close(api.sendGate)
	wg.Wait()
}

func TestCompleteAfterSwitchIsNoOp(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	tempID, err := e.Stage("hello")
	require.NoError(t, err)

	// Switching away discards the staged record before the network half
	// runs.
	e.SwitchChat("c2")
	msg, err := e.Complete(context.Background(), tempID)
	require.NoError(t, err)
	assert.Empty(t, msg.ID)
	assert.Empty(t, api.sent, "discarded stage must not reach the server")
}

// =============================================================================
// REALTIME DELIVERY
// =============================================================================

func TestReceiveDedupesByID(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	assert.True(t, e.Receive(inbound("m1", "hi", "bob")))
	assert.False(t, e.Receive(inbound("m1", "hi", "bob")), "duplicate delivery is dropped")
	assert.Len(t, e.Messages(), 1)
}

func TestReceiveIgnoresOtherConversations(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	other := inbound("m1", "elsewhere", "bob")
	other.Chat.ID = "c2"
	assert.False(t, e.Receive(other))
	assert.Empty(t, e.Messages())
}

func TestReceiveRejectsMalformed(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	assert.False(t, e.Receive(model.Message{Content: "no id", Chat: model.ChatRef{ID: "c1"}}))
	assert.Empty(t, e.Messages())
}

func TestEchoBeforeAckYieldsSingleMessage(t *testing.T) {
	api := newFakeAPI()
	api.sendGate = make(chan struct{})
	e := newEngineForTest(api)

	done := make(chan error, 1)
	go func() {
		_, err := e.Send(context.Background(), "hello")
		done <- err
	}()
	waitForCond(t, func() bool { return e.PendingCount() == 1 })

	// The realtime echo of our own send lands before the REST ack.
	assert.True(t, e.Receive(inbound("srv-1", "hello", "alice")))

	close(api.sendGate)
	require.NoError(t, <-done)

	msgs := e.Messages()
	require.Len(t, msgs, 1, "echo plus ack must not duplicate the message")
	assert.Equal(t, "srv-1", msgs[0].ID)
	assert.Zero(t, e.PendingCount())
}

func TestInterleavedSendsAndReceiptsKeepInsertionOrder(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	_, err := e.Send(context.Background(), "A")
	require.NoError(t, err)

	// Peer message with an earlier timestamp still lands after A.
	peer := inbound("m-peer", "B", "bob")
	peer.CreatedAt = time.Now().Add(-time.Hour)
	require.True(t, e.Receive(peer))

	_, err = e.Send(context.Background(), "C")
	require.NoError(t, err)

	msgs := e.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "A", msgs[0].Content)
	assert.Equal(t, "B", msgs[1].Content)
	assert.Equal(t, "C", msgs[2].Content)
}

// =============================================================================
// HISTORY AND SWITCHING
// =============================================================================

func TestLoadHistoryInstallsAndFilters(t *testing.T) {
	api := newFakeAPI()
	api.history["c1"] = []model.Message{
		inbound("m1", "one", "bob"),
		{Content: "malformed"},
		inbound("m2", "two", "alice"),
	}
	e := newEngineForTest(api)

	require.NoError(t, e.LoadHistory(context.Background(), "c1"))
	msgs := e.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestLoadHistoryErrorWrapsFetch(t *testing.T) {
	api := newFakeAPI()
	api.historyErr = errors.New("network down")
	e := newEngineForTest(api)

	err := e.LoadHistory(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestStaleHistoryIsDiscarded(t *testing.T) {
	api := newFakeAPI()
	api.history["c1"] = []model.Message{inbound("m1", "stale", "bob")}
	e := newEngineForTest(api)

	// The user switched away while the c1 fetch was in flight.
	e.SwitchChat("c2")
	require.NoError(t, e.LoadHistory(context.Background(), "c1"))
	assert.Empty(t, e.Messages(), "stale history must not overwrite the active view")
}

func TestSwitchChatClearsState(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)
	e.Receive(inbound("m1", "hi", "bob"))
	e.SetPeerTyping(true)

	prev := e.SwitchChat("c2")
	assert.Equal(t, "c1", prev)
	assert.Empty(t, e.Messages())
	assert.False(t, e.PeerTyping())
}

// =============================================================================
// EDIT AND DELETE
// =============================================================================

func TestEditUpdatesAfterServerAccepts(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)
	e.Receive(inbound("m1", "original", "alice"))

	require.NoError(t, e.Edit(context.Background(), "m1", "edited"))
	assert.Equal(t, "edited", e.Messages()[0].Content)
	assert.Equal(t, "edited", api.edits["m1"])
}

func TestEditFailureLeavesContent(t *testing.T) {
	api := newFakeAPI()
	api.editErr = errors.New("rejected")
	e := newEngineForTest(api)
	e.Receive(inbound("m1", "original", "alice"))

	err := e.Edit(context.Background(), "m1", "edited")
	assert.ErrorIs(t, err, ErrEdit)
	assert.Equal(t, "original", e.Messages()[0].Content)
}

func TestEditBlockedOnPending(t *testing.T) {
	api := newFakeAPI()
	api.sendGate = make(chan struct{})
	e := newEngineForTest(api)

	go e.Send(context.Background(), "in flight")
	waitForCond(t, func() bool { return e.PendingCount() == 1 })
	key := e.Messages()[0].Key()

	err := e.Edit(context.Background(), key, "too soon")
	assert.ErrorIs(t, err, ErrUnconfirmed)
	assert.ErrorIs(t, err, ErrEdit)

	close(api.sendGate)
}

func TestDeleteRemovesAfterServerAccepts(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)
	e.Receive(inbound("m1", "doomed", "alice"))

	require.NoError(t, e.Delete(context.Background(), "m1"))
	assert.Empty(t, e.Messages())
	assert.Equal(t, []string{"m1"}, api.deleted)
}

func TestDeleteFailureLeavesMessage(t *testing.T) {
	api := newFakeAPI()
	api.deleteErr = errors.New("rejected")
	e := newEngineForTest(api)
	e.Receive(inbound("m1", "still here", "alice"))

	err := e.Delete(context.Background(), "m1")
	assert.ErrorIs(t, err, ErrDelete)
	assert.Len(t, e.Messages(), 1)
}

func TestEditAndDeleteUnknownMessage(t *testing.T) {
	api := newFakeAPI()
	e := newEngineForTest(api)

	assert.ErrorIs(t, e.Edit(context.Background(), "nope", "x"), ErrUnknownMessage)
	assert.ErrorIs(t, e.Delete(context.Background(), "nope"), ErrUnknownMessage)
}

// waitForCond polls until cond holds or two seconds pass.
func waitForCond(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition never held")
}
