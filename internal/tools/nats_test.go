package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/hn/hntest"
	"github.com/alphabot-ai/hnbot/internal/model"
	"github.com/alphabot-ai/hnbot/internal/news"
)

func newNATSFixture() (*NATSServer, *hntest.Fake) {
	reg, fake := newFixtureRegistry()
	return &NATSServer{reg: reg, prefix: DefaultSubjectPrefix}, fake
}

func TestToolNameFromSubject(t *testing.T) {
	s, _ := newNATSFixture()
	tests := []struct {
		subject string
		name    string
		ok      bool
	}{
		{"hnbot.tools.get_item", "get_item", true},
		{"hnbot.tools.get_top_stories", "get_top_stories", true},
		{"hnbot.tools._list", "", false},
	}
	for _, tt := range tests {
		name, ok := s.toolName(tt.subject)
		if name != tt.name || ok != tt.ok {
			t.Errorf("toolName(%q) = %q, %v; want %q, %v", tt.subject, name, ok, tt.name, tt.ok)
		}
	}
}

func TestInvokeReplyDispatch(t *testing.T) {
	s, fake := newNATSFixture()
	fake.AddStory(model.Item{ID: 8863, By: "dhouston", Title: "Dropbox"})

	reply := s.invokeReply("get_item", []byte(`{"item_id": 8863}`))
	if !reply.OK {
		t.Fatalf("reply not OK: %s (%s)", reply.Error, reply.Code)
	}
	var item model.Item
	if err := json.Unmarshal(reply.Result, &item); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if item.ID != 8863 || item.By != "dhouston" {
		t.Errorf("item = %+v", item)
	}
}

func TestInvokeReplyEmptyBodyUsesDefaults(t *testing.T) {
	s, fake := newNATSFixture()
	fake.Lists[hn.ListTop] = nil

	reply := s.invokeReply("get_top_stories", nil)
	if !reply.OK {
		t.Fatalf("reply not OK: %s (%s)", reply.Error, reply.Code)
	}
}

func TestInvokeReplyErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		data string
		code string
	}{
		{"missing item", "get_item", `{"item_id": 999}`, "not_found"},
		{"missing argument", "get_item", `{}`, "invalid_argument"},
		{"unknown tool", "summon_dragons", "", "unknown_tool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newNATSFixture()
			reply := s.invokeReply(tt.tool, []byte(tt.data))
			if reply.OK {
				t.Fatal("expected error reply")
			}
			if reply.Code != tt.code {
				t.Errorf("code = %q, want %q", reply.Code, tt.code)
			}
		})
	}
}

func TestInvokeReplyRejectsMalformedBody(t *testing.T) {
	s, fake := newNATSFixture()

	reply := s.invokeReply("get_item", []byte(`not json`))
	if reply.OK || reply.Code != "invalid_argument" {
		t.Fatalf("reply = %+v", reply)
	}
	if fake.Calls() != 0 {
		t.Errorf("malformed body reached the upstream: %d calls", fake.Calls())
	}
}

func TestListReplyDescribesEveryTool(t *testing.T) {
	s, _ := newNATSFixture()

	reply := s.listReply()
	if !reply.OK {
		t.Fatalf("reply not OK: %s", reply.Error)
	}
	var infos []Info
	if err := json.Unmarshal(reply.Result, &infos); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(infos) != 16 {
		t.Errorf("tool count = %d", len(infos))
	}
}

func TestErrorReplyCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unknown tool", fmt.Errorf("%w: nope", ErrUnknownTool), "unknown_tool"},
		{"invalid argument", fmt.Errorf("%w: limit", news.ErrInvalidArgument), "invalid_argument"},
		{"not found", hn.ErrNotFound, "not_found"},
		{"upstream", &hn.UpstreamError{Op: "item", Status: 502}, "upstream"},
		{"wrapped upstream", fmt.Errorf("resolve: %w", &hn.UpstreamError{Op: "item"}), "upstream"},
		{"anything else", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := errorReply(tt.err)
			if reply.OK {
				t.Error("error reply must not be OK")
			}
			if reply.Code != tt.code {
				t.Errorf("code = %q, want %q", reply.Code, tt.code)
			}
			if reply.Error == "" {
				t.Error("error reply must carry a message")
			}
		})
	}
}
