package script

// OpamBootstrap installs the OCaml libraries hyperkit links against.
// Vars: packages (already shell-quoted).
const OpamBootstrap = `
	export OPAMYES=1
	opam init
	eval "$(opam config env)"
	opam install {{ .packages }}
`

// StageImages copies the tinycore kernel and initrd next to the boot script.
// Vars: kernel, initrd, dir (all shell-quoted).
const StageImages = `
	#!/usr/bin/env sh
	set -e

	echo "Staging tinycore linux images"
	cp {{ .kernel }} {{ .dir }}/vmlinuz
	cp {{ .initrd }} {{ .dir }}/initrd.gz
`

// BootTest is an expect script that boots the staged images, waits for the
// shell prompt and halts the guest.
// Vars: binary, cmdline, memory (all Tcl-quoted with TclWord), timeout.
const BootTest = `
	#!/usr/bin/env expect -d

	set KERNEL "./vmlinuz"
	set KERNEL_INITRD "./initrd.gz"
	set KERNEL_CMDLINE {{ .cmdline }}

	set MEM {{ .memory }}
	set PCI_DEV1 {0:0,hostbridge}
	set PCI_DEV2 {31,lpc}
	set LPC_DEV {com1,stdio}
	set ACPI {-A}

	spawn {{ .binary }} $ACPI -m $MEM -s $PCI_DEV1 -s $PCI_DEV2 -l $LPC_DEV -f kexec,$KERNEL,$KERNEL_INITRD,$KERNEL_CMDLINE
	set pid [exp_pid]
	set timeout {{ .timeout }}

	expect {
	  timeout { puts "FAIL boot"; exec kill -9 $pid; exit 1 }
	  "\r\ntc@box:~$ "
	}

	send "sudo halt\r\n";

	expect {
	  timeout { puts "FAIL shutdown"; exec kill -9 $pid; exit 1 }
	  "reboot: System halted"
	}

	expect eof

	puts "\nPASS"
`
