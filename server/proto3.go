package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	pgproto3 "github.com/jackc/pgproto3/v2"
	"github.com/lib/pq/oid"
	log "github.com/sirupsen/logrus"

	"github.com/leftmike/tinydb/engine"
	"github.com/leftmike/tinydb/parser"
)

type Proto3Config struct {
	Address string
}

// ListenAndServeProto3 serves the simple query flow of the PostgreSQL wire protocol v3. It
// returns ErrServerClosed after Close or Shutdown.
func (svr *Server) ListenAndServeProto3(p3Cfg Proto3Config) error {
	l, err := net.Listen("tcp", p3Cfg.Address)
	if err != nil {
		return err
	}
	return svr.serve(l, "proto3", svr.handleProto3Conn)
}

func (svr *Server) handleProto3Conn(conn net.Conn, entry *log.Entry) {
	be := pgproto3.NewBackend(pgproto3.NewChunkReader(conn), conn)

	user, ok := proto3Startup(be, conn, entry)
	if !ok {
		return
	}

	entry = entry.WithField("user", user)
	entry.Info("session started")
	proto3Session(svr.Engine, be, conn, entry)
	entry.Info("session done")
}

func proto3Startup(be *pgproto3.Backend, conn net.Conn, entry *log.Entry) (string, bool) {
	for {
		msg, err := be.ReceiveStartupMessage()
		if err != nil {
			entry.Errorf("receive startup message: %s", err)
			return "", false
		}

		switch msg := msg.(type) {
		case *pgproto3.StartupMessage:
			entry.Infof("protocol version: %d", msg.ProtocolVersion)
			for nam, val := range msg.Parameters {
				entry.Debugf("parameter: %s = %s", nam, val)
			}
			_, err := conn.Write((&pgproto3.AuthenticationOk{}).Encode(nil))
			if err != nil {
				entry.Errorf("send authentication ok: %s", err)
				return "", false
			}
			return msg.Parameters["user"], true
		case *pgproto3.SSLRequest:
			_, err := conn.Write([]byte("N"))
			if err != nil {
				entry.Errorf("send deny SSL request: %s", err)
				return "", false
			}
		default:
			entry.Errorf("unknown startup message: %#v", msg)
			return "", false
		}
	}
}

func proto3Session(e *engine.Engine, be *pgproto3.Backend, conn net.Conn, entry *log.Entry) {
	for {
		_, err := conn.Write((&pgproto3.ReadyForQuery{TxStatus: 'I'}).Encode(nil))
		if err != nil {
			entry.Errorf("send ready for query: %s", err)
			return
		}

		msg, err := be.Receive()
		if err != nil {
			if err != io.EOF {
				entry.Errorf("receive: %s", err)
			}
			return
		}

		switch msg := msg.(type) {
		case *pgproto3.Query:
			err = proto3Query(e, conn, msg.String)
			if err != nil {
				entry.Errorf("send query response: %s", err)
				return
			}
		case *pgproto3.Terminate:
			return
		default:
			buf, _ := json.Marshal(msg)
			entry.Errorf("backend unexpected message: %s", string(buf))
			err = proto3ErrorResponse(conn, "0A000",
				fmt.Sprintf("server: unsupported message: %T", msg))
			if err != nil {
				return
			}
		}
	}
}

func trimQuery(query string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
}

func sqlState(err error) string {
	switch {
	case errors.Is(err, engine.ErrSyntax), errors.Is(err, engine.ErrMalformedClause):
		return "42601" // syntax_error
	case errors.Is(err, engine.ErrTableNotFound):
		return "42P01" // undefined_table
	default:
		return "XX000" // internal_error
	}
}

// proto3Query returns an error only if the response could not be sent.
func proto3Query(e *engine.Engine, conn net.Conn, query string) error {
	stmt := trimQuery(query)
	if stmt == "" {
		_, err := conn.Write((&pgproto3.EmptyQueryResponse{}).Encode(nil))
		return err
	}

	res, err := e.Execute(stmt)
	if err != nil {
		return proto3ErrorResponse(conn, sqlState(err), err.Error())
	}

	var buf []byte
	if res.Kind == parser.Select {
		var fields []pgproto3.FieldDescription
		for _, col := range res.Columns {
			fields = append(fields,
				pgproto3.FieldDescription{
					Name:         []byte(col),
					DataTypeOID:  uint32(oid.T_text),
					DataTypeSize: -1,
					TypeModifier: -1,
					Format:       0, // Text format
				})
		}
		buf = (&pgproto3.RowDescription{Fields: fields}).Encode(buf)

		values := make([][]byte, len(res.Columns))
		for _, row := range res.Rows {
			for cdx, col := range res.Columns {
				if s, ok := row.Get(col).Str(); ok {
					values[cdx] = []byte(s)
				} else {
					values[cdx] = nil
				}
			}
			buf = (&pgproto3.DataRow{Values: values}).Encode(buf)
		}
	}

	buf = (&pgproto3.CommandComplete{CommandTag: []byte(commandTag(res))}).Encode(buf)
	_, err = conn.Write(buf)
	return err
}

func commandTag(res *engine.Result) string {
	switch res.Kind {
	case parser.Select:
		return fmt.Sprintf("%s %d", res.Kind.Tag(), len(res.Rows))
	case parser.Insert:
		return fmt.Sprintf("%s 0 %d", res.Kind.Tag(), res.RowsAffected)
	case parser.Delete:
		return fmt.Sprintf("%s %d", res.Kind.Tag(), res.RowsAffected)
	default:
		return res.Kind.Tag()
	}
}

func proto3ErrorResponse(conn net.Conn, code, msg string) error {
	_, err := conn.Write((&pgproto3.ErrorResponse{
		Severity: "ERROR",
		Code:     code,
		Message:  msg,
	}).Encode(nil))
	return err
}
