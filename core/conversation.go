// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import "slices"

// Role identifies the producer of a conversation message.
type Role int

const (
	// RoleUser marks a message written by the person asking.
	RoleUser Role = iota + 1
	// RoleAssistant marks a message produced by the assistant.
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Message is a single entry in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Conversation is an append-only, ordered log of messages.
// The last user message is the current question and the last assistant
// message is the current answer. A Conversation is owned by one invocation
// and is not safe for concurrent mutation.
type Conversation struct {
	messages []Message
}

// NewConversation starts a conversation seeded with one user message.
func NewConversation(question string) *Conversation {
	return &Conversation{
		messages: []Message{{Role: RoleUser, Content: question}},
	}
}

// Append adds a message to the end of the log.
func (c *Conversation) Append(role Role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Messages returns a copy of the log in insertion order.
func (c *Conversation) Messages() []Message {
	return slices.Clone(c.messages)
}

// Len returns the number of messages in the log.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastOf returns the most recent message with the given role.
func (c *Conversation) LastOf(role Role) (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == role {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// CountOf returns how many messages carry the given role.
func (c *Conversation) CountOf(role Role) int {
	n := 0
	for _, m := range c.messages {
		if m.Role == role {
			n++
		}
	}
	return n
}
