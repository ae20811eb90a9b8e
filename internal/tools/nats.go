package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/news"
)

// DefaultSubjectPrefix is the root of the request/reply subject space:
// <prefix>.tools.<name> invokes a tool, <prefix>.tools._list returns
// the tool descriptions.
const DefaultSubjectPrefix = "hnbot"

// natsTimeout bounds one tool invocation served over NATS.
const natsTimeout = 30 * time.Second

// Reply is the envelope every NATS response uses.
type Reply struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// NATSServer serves the registry over NATS request/reply.
type NATSServer struct {
	reg    *Registry
	prefix string
	subs   []*nats.Subscription
}

// ServeNATS subscribes the registry on conn under prefix
// (DefaultSubjectPrefix when empty). Call Close to drain.
func ServeNATS(conn *nats.Conn, reg *Registry, prefix string) (*NATSServer, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	s := &NATSServer{reg: reg, prefix: prefix}

	invoke, err := conn.QueueSubscribe(prefix+".tools.*", prefix, s.handleInvoke)
	if err != nil {
		return nil, err
	}
	s.subs = append(s.subs, invoke)

	list, err := conn.QueueSubscribe(prefix+".tools._list", prefix, s.handleList)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.subs = append(s.subs, list)

	log.Printf("nats: serving tools under %s.tools.*", prefix)
	return s, nil
}

// Close unsubscribes all handlers.
func (s *NATSServer) Close() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

func (s *NATSServer) handleInvoke(msg *nats.Msg) {
	name, ok := s.toolName(msg.Subject)
	if !ok {
		// The dedicated _list subscription answers this subject.
		return
	}
	respond(msg, s.invokeReply(name, msg.Data))
}

// toolName extracts the tool name from an invoke subject. ok is false
// for _list, which the wildcard subscription also matches.
func (s *NATSServer) toolName(subject string) (string, bool) {
	name := strings.TrimPrefix(subject, s.prefix+".tools.")
	if name == "_list" {
		return "", false
	}
	return name, true
}

func (s *NATSServer) invokeReply(name string, data []byte) Reply {
	var args Args
	if len(data) > 0 {
		if err := json.Unmarshal(data, &args); err != nil {
			return Reply{OK: false, Error: "request body must be a JSON object", Code: "invalid_argument"}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), natsTimeout)
	defer cancel()
	result, err := s.reg.Invoke(ctx, name, args)
	if err != nil {
		return errorReply(err)
	}
	out, err := json.Marshal(result)
	if err != nil {
		log.Printf("nats: marshal result for %s: %v", name, err)
		return Reply{OK: false, Error: "internal error", Code: "internal"}
	}
	return Reply{OK: true, Result: out}
}

func (s *NATSServer) handleList(msg *nats.Msg) {
	respond(msg, s.listReply())
}

func (s *NATSServer) listReply() Reply {
	data, err := json.Marshal(s.reg.List())
	if err != nil {
		return Reply{OK: false, Error: "internal error", Code: "internal"}
	}
	return Reply{OK: true, Result: data}
}

// errorReply maps service errors onto wire codes.
func errorReply(err error) Reply {
	code := "internal"
	switch {
	case errors.Is(err, ErrUnknownTool):
		code = "unknown_tool"
	case errors.Is(err, news.ErrInvalidArgument):
		code = "invalid_argument"
	case errors.Is(err, hn.ErrNotFound):
		code = "not_found"
	case isUpstream(err):
		code = "upstream"
	}
	return Reply{OK: false, Error: err.Error(), Code: code}
}

func isUpstream(err error) bool {
	var ue *hn.UpstreamError
	return errors.As(err, &ue)
}

func respond(msg *nats.Msg, reply Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		log.Printf("nats: marshal reply: %v", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Printf("nats: respond on %s: %v", msg.Subject, err)
	}
}
