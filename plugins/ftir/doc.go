// Package ftir is the FTIR spectrum plugin. It plots two-column absorbance
// files into wavenumber/absorbance subplots and attaches a background-fit
// control panel that measures the water peak height of the spectrum.
//
// # Usage
//
//	reg := plugin.NewRegistry()
//	reg.MustRegister(ftir.New(ftir.WithFitOptions(waterpeak.WithTolerance(20))))
//	fig, err := reg.Plot(tree, ftir.Name, "sample.csv")
package ftir
