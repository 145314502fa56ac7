package server

import "testing"

func TestParsePortArg(t *testing.T) {
	ep, err := parsePortArg("127,0,0,1,15,160")
	if err != nil {
		t.Fatalf("parsePortArg: %v", err)
	}
	if ep.host != "127.0.0.1" || ep.port != 15*256+160 {
		t.Fatalf("parsePortArg = %+v, want host=127.0.0.1 port=%d", ep, 15*256+160)
	}
}

func TestParsePortArgRejectsWrongFieldCount(t *testing.T) {
	if _, err := parsePortArg("127,0,0,1,15"); err == nil {
		t.Fatal("parsePortArg with 5 numbers succeeded, want error")
	}
}

func TestParsePortArgRejectsOutOfRangeNumbers(t *testing.T) {
	if _, err := parsePortArg("127,0,0,1,15,999"); err == nil {
		t.Fatal("parsePortArg with an out-of-range number succeeded, want error")
	}
	if _, err := parsePortArg("127,0,0,1,-1,0"); err == nil {
		t.Fatal("parsePortArg with a negative number succeeded, want error")
	}
}

func TestParsePortArgRejectsNonNumeric(t *testing.T) {
	if _, err := parsePortArg("127,0,0,1,abc,0"); err == nil {
		t.Fatal("parsePortArg with a non-numeric field succeeded, want error")
	}
}

func TestCmdPortWithMalformedArgReplies501(t *testing.T) {
	env := newTestEnv(t)
	c := env.dial()
	c.login("alice", "wonderland")

	c.send("PORT 127,0,0,1,15")
	c.expectCode("501")

	c.send("PORT 127,0,0,1,15,999")
	c.expectCode("501")
}
