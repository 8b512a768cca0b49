package fdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"customTools/internal/ssh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) Ask(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question)
	return answer == "y", err
}

type switchConn struct {
	outputs  map[string]string
	commands []string
}

func (c *switchConn) Run(_ context.Context, command string) (string, string, error) {
	c.commands = append(c.commands, command)
	return c.outputs[command], "", nil
}

func (c *switchConn) Close() error { return nil }

type fakePool struct {
	conns    map[string]*switchConn
	acquired []string
}

func (p *fakePool) Acquire(_ context.Context, host string) (ssh.Conn, error) {
	p.acquired = append(p.acquired, host)
	c, ok := p.conns[host]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return c, nil
}

func newTestSearcher(t *testing.T, pool *fakePool, prompt *scriptedPrompter) (*Searcher, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	db := NewMACDatabase()
	db.Add("00:04:96", "00:04:96 Extreme Networks")
	db.Add("9c:8e:cd", "9c:8e:cd Amcrest")

	s := NewSearcher(pool, testProfiles(t)["extreme"], db, nil, prompt, out,
		Options{IPPrefix: "10.10.", CommandTimeout: time.Second, CacheTTL: 15 * time.Minute}, nil)
	return s, out
}

func TestMACSearchShowsPortDetails(t *testing.T) {
	sw := &switchConn{outputs: map[string]string{
		"show fdb":                  extremeFDB,
		"show ports 12 information": "Port 12 info",
		"show lldp neighbors":       "no neighbors",
		"show ports 12 description": "12  Lobby camera",
	}}
	pool := &fakePool{conns: map[string]*switchConn{"10.10.1.1": sw}}
	prompt := &scriptedPrompter{answers: []string{
		"1",                 // mode
		"00:04:96:ab:cd:ef", // mac
		"1.1",               // ip suffix
		"n",                 // another ip
		"n",                 // another mac
		"3",                 // back
	}}
	s, out := newTestSearcher(t, pool, prompt)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"show fdb", "show ports 12 information", "show lldp neighbors", "show ports 12 description"}, sw.commands)
	assert.Contains(t, out.String(), "Database match found: 00:04:96 Extreme Networks")
	assert.Contains(t, out.String(), "Retrieving FDB info from 10.10.1.1...")
	assert.Contains(t, out.String(), "Lobby camera")
}

func TestMACSearchRejectsUnknownVendor(t *testing.T) {
	pool := &fakePool{conns: map[string]*switchConn{}}
	prompt := &scriptedPrompter{answers: []string{"00:11:22:33:44:55", ""}}
	s, out := newTestSearcher(t, pool, prompt)

	require.NoError(t, s.MACSearch(context.Background()))
	assert.Contains(t, out.String(), "No match found in the database.")
	assert.Empty(t, pool.acquired)
}

func TestMACSearchReusesCacheForSecondSwitchVisit(t *testing.T) {
	sw := &switchConn{outputs: map[string]string{"show fdb": extremeFDB}}
	pool := &fakePool{conns: map[string]*switchConn{"10.10.1.1": sw}}
	prompt := &scriptedPrompter{answers: []string{
		"9c:8e:cd:00:11:22", "1.1", "y", "1.1", "n", "n",
	}}
	s, _ := newTestSearcher(t, pool, prompt)

	require.NoError(t, s.MACSearch(context.Background()))

	fdbCalls := 0
	for _, c := range sw.commands {
		if c == "show fdb" {
			fdbCalls++
		}
	}
	assert.Equal(t, 1, fdbCalls)
}

func TestPortSearchCrossReferencesInventory(t *testing.T) {
	sw := &switchConn{outputs: map[string]string{
		"show fdb":                  extremeFDB,
		"show ports 12 description": "12  Cameras",
	}}
	pool := &fakePool{conns: map[string]*switchConn{"10.10.1.1": sw}}
	prompt := &scriptedPrompter{answers: []string{"10.10.1.1", "12", "n"}}
	s, out := newTestSearcher(t, pool, prompt)

	require.NoError(t, s.PortSearch(context.Background()))

	assert.Contains(t, out.String(), "Found 2 MAC address(es) on port 12")
	assert.Contains(t, out.String(), "MAC: 00:04:96:ab:cd:ef (VLAN Cameras(0020))")
	assert.Contains(t, out.String(), "Not found in inventory")
}

func TestPortSearchConnectionError(t *testing.T) {
	pool := &fakePool{conns: map[string]*switchConn{}}
	prompt := &scriptedPrompter{answers: []string{"10.10.9.9", "1", "n"}}
	s, out := newTestSearcher(t, pool, prompt)

	require.NoError(t, s.PortSearch(context.Background()))
	assert.Contains(t, out.String(), "connection refused")
}

func TestLocate(t *testing.T) {
	sw := &switchConn{outputs: map[string]string{"show fdb": extremeFDB}}
	pool := &fakePool{conns: map[string]*switchConn{"sw1": sw}}
	s, _ := newTestSearcher(t, pool, &scriptedPrompter{})

	e, ok, err := s.Locate(context.Background(), "sw1", "000c29aabbcc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "21", e.Port)
}
