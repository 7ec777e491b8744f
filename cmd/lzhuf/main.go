// Command lzhuf is a thin demonstrative wrapper around the lzhuf codec and
// yapp transport: encode/decode one file into another, or send/recv one over a
// TCP session framed as YAPP/B2F.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wl2kgo/lzhuf"
	"github.com/wl2kgo/lzhuf/yapp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lzhuf",
		Short:         "LZHUF codec and YAPP/B2F transport",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newSendCmd(), newRecvCmd())
	return root
}

func newEncodeCmd() *cobra.Command {
	var b2f bool
	cmd := &cobra.Command{
		Use:   "encode <input> <output>",
		Short: "compress a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			stats, err := lzhuf.Encode(in, out, b2f, nil)
			if err != nil {
				return err
			}
			fmt.Printf("%d -> %d bytes\n", stats.InputBytes, stats.OutputBytes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&b2f, "b2f", false, "prefix a CRC-16/CCITT-XMODEM header")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var b2f bool
	cmd := &cobra.Command{
		Use:   "decode <input> <output>",
		Short: "decompress a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			stats, err := lzhuf.Decode(in, out, b2f, nil)
			if err != nil {
				return err
			}
			fmt.Printf("%d -> %d bytes\n", stats.InputBytes, stats.OutputBytes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&b2f, "b2f", false, "expect a CRC-16/CCITT-XMODEM header")
	return cmd
}

func newSendCmd() *cobra.Command {
	var (
		b2f     bool
		subject string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send <addr> <input>",
		Short: "compress and send a file over a YAPP/B2F TCP session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", args[0])
			if err != nil {
				return err
			}
			defer conn.Close()

			in, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer in.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return yapp.Send(ctx, conn, in, subject, &yapp.Options{B2F: b2f, Timeout: timeout})
		},
	}
	cmd.Flags().BoolVar(&b2f, "b2f", false, "prefix a CRC-16/CCITT-XMODEM header")
	cmd.Flags().StringVar(&subject, "subject", "", "message subject")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-frame read timeout")
	return cmd
}

func newRecvCmd() *cobra.Command {
	var (
		b2f     bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "recv <addr> <output>",
		Short: "receive and decompress a YAPP/B2F TCP session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", args[0])
			if err != nil {
				return err
			}
			defer ln.Close()

			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			defer conn.Close()

			staged, err := os.CreateTemp("", "lzhuf-recv-*")
			if err != nil {
				return err
			}
			defer os.Remove(staged.Name())
			defer staged.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			subject, rerr := yapp.Recv(ctx, conn, staged, &yapp.Options{B2F: b2f, Timeout: timeout})
			if rerr != nil && !errors.Is(rerr, yapp.ErrChecksumMismatch) {
				return rerr
			}

			out, oerr := os.Create(args[1])
			if oerr != nil {
				return oerr
			}
			defer out.Close()

			if _, derr := yapp.Decode(staged, out, &yapp.Options{B2F: b2f}); derr != nil {
				return derr
			}
			fmt.Printf("subject: %s\n", subject)
			return rerr
		},
	}
	cmd.Flags().BoolVar(&b2f, "b2f", false, "expect a CRC-16/CCITT-XMODEM header")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-frame read timeout")
	return cmd
}
