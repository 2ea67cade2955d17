package movepkg

func (s *MovePkgTestSuite) TestNamedAddresses() {
	require := s.Require()
	named := NewNamedAddresses()
	require.Equal("", named.String())

	named.Set("punkninja", testDerived)
	named.Set("deployer", testOwner)
	require.Equal(2, named.Len())
	require.Equal([]string{"deployer", "punkninja"}, named.Names())
	require.Equal(
		"deployer=0xf08819a2ca002c1da8c6242040607617093f519eb2525201efaba47b0841f682,"+
			"punkninja=0x7c527ff1f9bb98131f3509d073530ae37ff5c62621b9f7b4ee0aee5fcfc18c6a",
		named.String(),
	)

	addr, ok := named.Get("punkninja")
	require.True(ok)
	require.Equal(testDerived, addr)
	_, ok = named.Get("other")
	require.False(ok)

	// rebinding replaces
	named.Set("deployer", testDerived)
	require.Equal(2, named.Len())
	addr, _ = named.Get("deployer")
	require.Equal(testDerived, addr)
}
