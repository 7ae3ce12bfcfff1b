// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gomail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ecodeclub/webmall/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSendCloser struct {
	from   string
	to     []string
	body   bytes.Buffer
	closed bool
}

func (f *fakeSendCloser) Send(from string, to []string, msg io.WriterTo) error {
	f.from = from
	f.to = to
	_, err := msg.WriteTo(&f.body)
	return err
}

func (f *fakeSendCloser) Close() error {
	f.closed = true
	return nil
}

type fakeDialer struct {
	sc  *fakeSendCloser
	err error
}

func (f *fakeDialer) Dial() (gomail.SendCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sc, nil
}

func TestService_SendMail(t *testing.T) {
	sc := &fakeSendCloser{}
	svc := NewService(&fakeDialer{sc: sc}, "noreply@webmall.com")
	err := svc.SendMail(context.Background(), email.Mail{
		To:      "buyer@example.com",
		Subject: "Order Confirmation - ORD-202610-AAAAAAAA",
		Body:    []byte("<p>thanks</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "noreply@webmall.com", sc.from)
	assert.Equal(t, []string{"buyer@example.com"}, sc.to)
	assert.Contains(t, sc.body.String(), "Subject: Order Confirmation - ORD-202610-AAAAAAAA")
	assert.Contains(t, sc.body.String(), "<p>thanks</p>")
	assert.True(t, sc.closed)
}

func TestService_SendMail_Error(t *testing.T) {
	svc := NewService(&fakeDialer{err: errors.New("connection refused")}, "noreply@webmall.com")
	err := svc.SendMail(context.Background(), email.Mail{To: "a@b.com"})
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svc.SendMail(ctx, email.Mail{To: "a@b.com"})
	assert.ErrorIs(t, err, context.Canceled)
}
